package message

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"
	jsoniter "github.com/json-iterator/go"
)

// ErrNoID is returned by PeekID when the payload has no "id" member.
var ErrNoID = errors.New("message: no id member")

// ID is a request identifier: a number or a string. The zero value is the
// absent/null id and is not valid for requests.
type ID struct {
	num   int64
	str   string
	isStr bool
	valid bool
}

func NumberID(n int64) ID { return ID{num: n, valid: true} }

func StringID(s string) ID { return ID{str: s, isStr: true, valid: true} }

// Valid reports whether the id is set (not null or absent).
func (id ID) Valid() bool { return id.valid }

func (id ID) IsString() bool { return id.isStr }

// Key is a canonical form used to correlate a response with its request.
// Numbers and strings never collide: 7 and "7" have different keys.
func (id ID) Key() string {
	switch {
	case !id.valid:
		return "null"
	case id.isStr:
		return "s:" + id.str
	default:
		return "n:" + strconv.FormatInt(id.num, 10)
	}
}

func (id ID) String() string {
	switch {
	case !id.valid:
		return "null"
	case id.isStr:
		return strconv.Quote(id.str)
	default:
		return strconv.FormatInt(id.num, 10)
	}
}

func (id ID) MarshalJSON() ([]byte, error) {
	switch {
	case !id.valid:
		return []byte("null"), nil
	case id.isStr:
		return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(id.str)
	default:
		return strconv.AppendInt(nil, id.num, 10), nil
	}
}

func (id *ID) UnmarshalJSON(data []byte) error {
	v, err := parseID(data, jsonparser.NotExist)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// PeekID extracts the "id" member of an encoded request or response without
// decoding the rest of it. A null id yields the zero ID and no error.
func PeekID(data []byte) (ID, error) {
	value, dataType, _, err := jsonparser.Get(data, "id")
	if dataType == jsonparser.NotExist {
		return ID{}, ErrNoID
	}
	if err != nil {
		return ID{}, err
	}
	return parseID(value, dataType)
}

// parseID turns a raw id into an ID. When dataType is NotExist the raw bytes
// still carry their JSON syntax (quotes included) and the type is sniffed.
func parseID(value []byte, dataType jsonparser.ValueType) (ID, error) {
	if dataType == jsonparser.NotExist {
		if len(value) == 0 {
			return ID{}, fmt.Errorf("message: empty id")
		}
		switch value[0] {
		case '"':
			if len(value) < 2 || value[len(value)-1] != '"' {
				return ID{}, fmt.Errorf("message: invalid string id %s", value)
			}
			value, dataType = value[1:len(value)-1], jsonparser.String
		case 'n':
			dataType = jsonparser.Null
		default:
			dataType = jsonparser.Number
		}
	}

	switch dataType {
	case jsonparser.Null:
		return ID{}, nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return ID{}, fmt.Errorf("message: invalid string id: %w", err)
		}
		return StringID(s), nil
	case jsonparser.Number:
		n, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil {
			return ID{}, fmt.Errorf("message: id %s is not an integer", value)
		}
		return NumberID(n), nil
	default:
		return ID{}, fmt.Errorf("message: id must be a number or a string, got %s", dataType)
	}
}
