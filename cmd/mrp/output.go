package main

import (
	"encoding/json"
	"os"
	"time"
)

type commandOutput struct {
	Command    string `json:"command"`
	DurationMS int64  `json:"duration_ms"`
	Result     any    `json:"result"`
}

func writeResult(command string, started time.Time, result any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(commandOutput{
		Command:    command,
		DurationMS: time.Since(started).Milliseconds(),
		Result:     result,
	})
}
