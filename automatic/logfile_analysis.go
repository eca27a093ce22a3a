package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// AnalyzeLogFile reads a match log written by PlayMatch and summarizes it.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	s, err := ReadLog(file)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

// ReadLog rebuilds a summary from a match log. The first player is the one
// who moved first in the first game.
func ReadLog(rd io.Reader) (*Summary, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = len(logHeader)

	// Record looks like:
	// gameID,playerA,playerB,winner,plies,moves
	var s *Summary
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == logHeader[0] {
			continue
		}
		gameID, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("bad game id: %w", err)
		}
		plies, err := strconv.Atoi(record[4])
		if err != nil {
			return nil, fmt.Errorf("game %d: bad ply count: %w", gameID, err)
		}
		res := GameResult{
			GameID:  gameID,
			PlayerA: record[1],
			PlayerB: record[2],
			Winner:  record[3],
			Plies:   plies,
			Moves:   record[5],
		}
		if res.Winner == drawToken {
			res.Winner = ""
		}
		if s == nil {
			s = NewSummary(res.PlayerA, res.PlayerB)
		}
		s.Add(res)
	}
	if s == nil {
		s = NewSummary("", "")
	}
	return s, nil
}
