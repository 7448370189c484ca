package sqlite

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"time"

	"github.com/dekarrin/verbly/internal/world"
	"github.com/dekarrin/verbly/server/dao"
)

// Times are stored as Unix microseconds, with 0 for the zero time.
func dbTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func fromDBTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMicro(v)
}

func dbBool(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dbEmail(e *mail.Address) string {
	if e == nil {
		return ""
	}
	return e.Address
}

func fromDBEmail(s string) (*mail.Address, error) {
	if s == "" {
		return nil, nil
	}
	return mail.ParseAddress(s)
}

// Session state is stored as base64 of its binary encoding.
func dbState(st world.State) (string, error) {
	data, err := st.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func fromDBState(s string) (world.State, error) {
	var st world.State
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return st, err
	}
	err = st.UnmarshalBinary(data)
	return st, err
}

// decodeErr marks a stored value as unreadable.
func decodeErr(column, value string, err error) error {
	return fmt.Errorf("%w: stored %s %q: %w", dao.ErrDecodingFailure, column, value, err)
}
