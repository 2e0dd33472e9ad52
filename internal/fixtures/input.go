package fixtures

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mrlokans/marcdemo/internal/entities"
	"github.com/mrlokans/marcdemo/internal/marc21"
)

// Input formats accepted by ReadRecords.
const (
	FormatJSON    = "json"
	FormatMARCXML = "marcxml"
)

var (
	ErrUnknownFormat = errors.New("unknown input format")
	ErrNoRecords     = errors.New("input contains no records")
)

// ReadRecords decodes record documents. JSON input may be an array of
// objects, a single object, or one object per line.
func ReadRecords(r io.Reader, format string) ([]entities.RecordJSON, error) {
	switch format {
	case FormatJSON, "":
		return readJSON(r)
	case FormatMARCXML:
		return marc21.ParseMARCXML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func readJSON(r io.Reader) ([]entities.RecordJSON, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRecords
		}
		return nil, err
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	var docs []entities.RecordJSON
	if first == '[' {
		if err := dec.Decode(&docs); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
	} else {
		// A single object is a stream of length one.
		for {
			var doc entities.RecordJSON
			err := dec.Decode(&doc)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("invalid JSON record %d: %w", len(docs)+1, err)
			}
			docs = append(docs, doc)
		}
	}

	if len(docs) == 0 {
		return nil, ErrNoRecords
	}
	for i, doc := range docs {
		if doc == nil {
			return nil, fmt.Errorf("record %d is not an object", i+1)
		}
	}
	return docs, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsRune([]byte(" \t\r\n"), rune(b)) {
			return b, br.UnreadByte()
		}
	}
}
