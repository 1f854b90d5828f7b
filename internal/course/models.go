package course

import (
	"encoding/json"
	"fmt"
)

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if !Level(s).Valid() {
		return fmt.Errorf("unknown course level %q", s)
	}
	*l = Level(s)
	return nil
}

type Course struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Level       Level  `json:"level"`
	Instructor  string `json:"instructor"`
	Thumbnail   string `json:"thumbnail"`
}
