package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const recordVersion1 = 1

// Record layout v1 (all integers big endian):
//
//	[0]    version
//	[1]    user id length (≤255), followed by the user id bytes
//	       — fixed early offset, read by the owner-check Lua script
//	uint16 login length, login bytes
//	int64  last access, unix nanoseconds
//	uint16 variable count, then per variable:
//	       uint16 key length, key, uint16 value length, value
//
// The token is the Redis key and is not part of the record.

// Encode serializes a session record.
func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordVersion1)

	if len(s.UserID) > 255 {
		return nil, errors.New("user id too long")
	}
	buf.WriteByte(byte(len(s.UserID)))
	buf.WriteString(s.UserID)

	if len(s.Login) > 65535 {
		return nil, errors.New("login too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(s.Login))); err != nil {
		return nil, err
	}
	buf.WriteString(s.Login)

	if err := binary.Write(&buf, binary.BigEndian, s.LastAccess.UnixNano()); err != nil {
		return nil, err
	}

	if len(s.Variables) > 65535 {
		return nil, errors.New("too many session variables")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(s.Variables))); err != nil {
		return nil, err
	}
	for k, v := range s.Variables {
		if len(k) > 65535 || len(v) > 65535 {
			return nil, errors.New("session variable too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(k))); err != nil {
			return nil, err
		}
		buf.WriteString(k)
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(v))); err != nil {
			return nil, err
		}
		buf.WriteString(v)
	}

	return buf.Bytes(), nil
}

// Decode parses a session record stored under token.
func Decode(token string, data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != recordVersion1 {
		return nil, errors.New("invalid session record version")
	}

	uidLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	uid := make([]byte, uidLen)
	if _, err := io.ReadFull(reader, uid); err != nil {
		return nil, err
	}

	var loginLen uint16
	if err := binary.Read(reader, binary.BigEndian, &loginLen); err != nil {
		return nil, err
	}
	login := make([]byte, loginLen)
	if _, err := io.ReadFull(reader, login); err != nil {
		return nil, err
	}

	var lastAccess int64
	if err := binary.Read(reader, binary.BigEndian, &lastAccess); err != nil {
		return nil, err
	}

	var varCount uint16
	if err := binary.Read(reader, binary.BigEndian, &varCount); err != nil {
		return nil, err
	}
	vars := make(map[string]string, varCount)
	for i := 0; i < int(varCount); i++ {
		key, err := readString16(reader)
		if err != nil {
			return nil, err
		}
		value, err := readString16(reader)
		if err != nil {
			return nil, err
		}
		vars[key] = value
	}

	return &Session{
		Login:      string(login),
		UserID:     string(uid),
		Token:      token,
		Variables:  vars,
		LastAccess: time.Unix(0, lastAccess),
	}, nil
}

func readString16(reader *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(reader, binary.BigEndian, &n); err != nil {
		return "", err
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}
