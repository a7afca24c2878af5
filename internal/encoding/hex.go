// Package encoding implements encoding.TextMarshaler and
// encoding.TextUnmarshaler for vm32's object-code format, an Intel-Hex
// derivative adapted to 32-bit words.
//
// Each line is composed of a prefix, length, address, record type,
// optional data and a checksum:
//
//	:LLAAAATT[DDDDDDDD...]CC
//	012345678
//
// # Bugs
//
// This is not a complete Intel Hex implementation; it supports only the
// data and end-of-file record types, and widens the data field to 32-bit
// words to match the instruction size.
package encoding

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/arveladin/vm32/internal/vm"
)

type kind byte

const (
	kindData kind = 0
	kindEOF  kind = 1
)

var errInvalidHex = errors.New("invalid object encoding")

// HexEncoding marshals and unmarshals object code as the text format
// above.
type HexEncoding struct {
	code []vm.ObjectCode
}

// Code returns the collected object code.
func (h HexEncoding) Code() []vm.ObjectCode {
	return h.code
}

// SetCode installs the object code to marshal.
func (h *HexEncoding) SetCode(code []vm.ObjectCode) {
	h.code = code
}

func (h *HexEncoding) MarshalText() ([]byte, error) {
	var buf bytes.Buffer

	enc := hex.NewEncoder(&buf)

	for _, obj := range h.code {
		var check byte

		buf.WriteByte(':')

		header := make([]byte, 4)
		header[0] = byte(len(obj.Code) * 4)
		binary.BigEndian.PutUint16(header[1:3], uint16(obj.Orig))
		header[3] = byte(kindData)

		for _, b := range header {
			check += b
		}

		if _, err := enc.Write(header); err != nil {
			return buf.Bytes(), err
		}

		for _, word := range obj.Code {
			var wb [4]byte
			binary.BigEndian.PutUint32(wb[:], uint32(word))

			if _, err := enc.Write(wb[:]); err != nil {
				return buf.Bytes(), err
			}

			for _, b := range wb {
				check += b
			}
		}

		sum := byte(1 + ^check)

		if _, err := enc.Write([]byte{sum}); err != nil {
			return buf.Bytes(), err
		}

		buf.WriteByte('\n')
	}

	buf.WriteString(":00000001ff\n")

	return buf.Bytes(), nil
}

func (h *HexEncoding) UnmarshalText(bs []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(bs))
	h.code = nil

	for scanner.Scan() {
		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		if line[0] != ':' {
			return fmt.Errorf("%w: line does not start with ':'", errInvalidHex)
		}

		var dec [4]byte

		if _, err := hex.Decode(dec[:1], line[1:3]); err != nil {
			return fmt.Errorf("%w: len: %w", errInvalidHex, err)
		}

		recLen := dec[0]
		check := dec[0]

		if _, err := hex.Decode(dec[:2], line[3:7]); err != nil {
			return fmt.Errorf("%w: addr: %w", errInvalidHex, err)
		}

		recAddr := binary.BigEndian.Uint16(dec[:2])
		check += dec[0] + dec[1]

		if _, err := hex.Decode(dec[:1], line[7:9]); err != nil {
			return fmt.Errorf("%w: type: %w", errInvalidHex, err)
		}

		recKind := kind(dec[0])
		check += dec[0]

		if _, err := hex.Decode(dec[:1], line[len(line)-2:]); err != nil {
			return fmt.Errorf("%w: check: %w", errInvalidHex, err)
		}

		recCheck := dec[0]

		switch {
		case recKind == kindEOF:
			if sum := byte(1 + ^check); sum != recCheck {
				return fmt.Errorf("%w: checksum invalid: %#02x != %#02x", errInvalidHex, sum, recCheck)
			}

			return nil

		case recKind == kindData && recLen%4 == 0 && recLen > 0:
			hexData := make([]byte, recLen)

			if _, err := hex.Decode(hexData, line[9:9+int(recLen)*2]); err != nil {
				return fmt.Errorf("%w: data: %w", errInvalidHex, err)
			}

			words := make([]vm.Word, recLen/4)

			for i := range words {
				words[i] = vm.Word(binary.BigEndian.Uint32(hexData[4*i : 4*i+4]))
			}

			for _, b := range hexData {
				check += b
			}

			if sum := byte(1 + ^check); sum != recCheck {
				return fmt.Errorf("%w: checksum invalid: %#02x != %#02x", errInvalidHex, sum, recCheck)
			}

			h.code = append(h.code, vm.ObjectCode{Orig: vm.Word(recAddr), Code: words})

		default:
			return fmt.Errorf("%w: unexpected record type %d or length %d", errInvalidHex, recKind, recLen)
		}
	}

	return fmt.Errorf("%w: missing end-of-file record", errInvalidHex)
}
