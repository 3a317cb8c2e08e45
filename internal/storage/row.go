package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	UsernameSize = 32
	EmailSize    = 255

	idSize         = 4
	idOffset       = 0
	usernameOffset = idOffset + idSize
	emailOffset    = usernameOffset + UsernameSize

	RowSize = idSize + UsernameSize + EmailSize
)

// Row is one record of the table. Username and Email keep their full
// fixed-width storage so a decoded row encodes back to the same bytes.
// The logical string is everything before the first NUL byte, or the whole
// field when it holds no NUL.
type Row struct {
	ID       uint32
	username [UsernameSize]byte
	email    [EmailSize]byte
}

func NewRow(id uint32, username, email string) (Row, error) {
	r := Row{ID: id}
	if err := r.SetUsername(username); err != nil {
		return Row{}, err
	}
	if err := r.SetEmail(email); err != nil {
		return Row{}, err
	}
	return r, nil
}

func (r *Row) SetUsername(s string) error {
	if len(s) > UsernameSize {
		return fmt.Errorf("username %d bytes > %d: %w", len(s), UsernameSize, ErrStringTooLong)
	}
	r.username = [UsernameSize]byte{}
	copy(r.username[:], s)
	return nil
}

func (r *Row) SetEmail(s string) error {
	if len(s) > EmailSize {
		return fmt.Errorf("email %d bytes > %d: %w", len(s), EmailSize, ErrStringTooLong)
	}
	r.email = [EmailSize]byte{}
	copy(r.email[:], s)
	return nil
}

func (r Row) Username() string {
	return fieldString(r.username[:])
}

func (r Row) Email() string {
	return fieldString(r.email[:])
}

func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username(), r.Email())
}

// Encode writes the row into dst, which must hold at least RowSize bytes
func (r Row) Encode(dst []byte) {
	_ = dst[RowSize-1]
	binary.LittleEndian.PutUint32(dst[idOffset:idOffset+idSize], r.ID)
	copy(dst[usernameOffset:usernameOffset+UsernameSize], r.username[:])
	copy(dst[emailOffset:emailOffset+EmailSize], r.email[:])
}

func DecodeRow(src []byte) Row {
	_ = src[RowSize-1]
	var r Row
	r.ID = binary.LittleEndian.Uint32(src[idOffset : idOffset+idSize])
	copy(r.username[:], src[usernameOffset:usernameOffset+UsernameSize])
	copy(r.email[:], src[emailOffset:emailOffset+EmailSize])
	return r
}

func fieldString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
