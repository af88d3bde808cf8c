package laps

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/verte-zerg/lapwatch/internal/model"
)

// Encode serializes laps as a single JSON array of
// {"number","time","totalTime"} objects.
func Encode(records []model.LapRecord) ([]byte, error) {
	if records == nil {
		records = []model.LapRecord{}
	}
	buf, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(err, "encode laps")
	}
	return buf, nil
}

// Decode parses a JSON lap array produced by Encode and validates it.
func Decode(data []byte) ([]model.LapRecord, error) {
	var records []model.LapRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "decode laps")
	}
	l, err := Restore(records)
	if err != nil {
		return nil, err
	}
	return l.All(), nil
}

// MarshalJSON implements json.Marshaler.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	return Encode(l.laps)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	records, err := Decode(data)
	if err != nil {
		return err
	}
	l.laps = records
	l.clamps = 0
	return nil
}
