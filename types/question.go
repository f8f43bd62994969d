package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NO_HINT_PROVIDED is stored as the hint of a question that came without one.
const NO_HINT_PROVIDED = "No hint provided"

// ParsedQuestion is one numbered question extracted from an LLM completion.
type ParsedQuestion struct {
	Text string `json:"text" bson:"text"`
	Hint string `json:"hint" bson:"hint"`
}

// QuestionSet maps question identifiers ("Q1", "Q2", ...) to their parsed
// question. Keys keep the order in which they first appeared; setting an
// existing key replaces the value in place.
type QuestionSet struct {
	keys  []string
	items map[string]ParsedQuestion
}

func NewQuestionSet() *QuestionSet {
	return &QuestionSet{
		items: make(map[string]ParsedQuestion),
	}
}

func (s *QuestionSet) Set(id string, q ParsedQuestion) {
	if s.items == nil {
		s.items = make(map[string]ParsedQuestion)
	}
	if _, ok := s.items[id]; !ok {
		s.keys = append(s.keys, id)
	}
	s.items[id] = q
}

func (s *QuestionSet) Get(id string) (ParsedQuestion, bool) {
	q, ok := s.items[id]
	return q, ok
}

func (s *QuestionSet) Len() int {
	return len(s.keys)
}

// Keys returns the identifiers in first-appearance order.
func (s *QuestionSet) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// MarshalJSON encodes the set as {"Q1": ["question", "hint"], ...}, keys in
// first-appearance order.
func (s *QuestionSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		q := s.items[id]
		value, err := json.Marshal([2]string{q.Text, q.Hint})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *QuestionSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("question set: expected object, got %v", tok)
	}
	s.keys = nil
	s.items = make(map[string]ParsedQuestion)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("question set: expected key, got %v", tok)
		}
		var pair []string
		if err := dec.Decode(&pair); err != nil {
			return fmt.Errorf("question set: %s: %w", id, err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("question set: %s: expected [question, hint], got %d values", id, len(pair))
		}
		s.Set(id, ParsedQuestion{Text: pair[0], Hint: pair[1]})
	}
	_, err = dec.Token()
	return err
}

// Questions returns the parsed questions in first-appearance order.
func (s *QuestionSet) Questions() []ParsedQuestion {
	out := make([]ParsedQuestion, 0, len(s.keys))
	for _, id := range s.keys {
		out = append(out, s.items[id])
	}
	return out
}

// QuestionEntry is the flat, storable form of one question of a set.
type QuestionEntry struct {
	ID   string `json:"id" bson:"id"`
	Text string `json:"text" bson:"text"`
	Hint string `json:"hint" bson:"hint"`
}

func (s *QuestionSet) Entries() []QuestionEntry {
	out := make([]QuestionEntry, 0, len(s.keys))
	for _, id := range s.keys {
		q := s.items[id]
		out = append(out, QuestionEntry{ID: id, Text: q.Text, Hint: q.Hint})
	}
	return out
}
