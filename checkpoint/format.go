// Package checkpoint implements spec §4.7's save/load contract: a
// versioned binary container of msgpack-encoded sections plus a
// human-readable YAML companion manifest, grounded on the teacher pack's
// qubicDB persistence codec (header + msgpack body) and manifest style.
package checkpoint

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MagicBytes identifies a plasticity-core checkpoint file.
const MagicBytes = "PLAS"

// FormatVersion is the current on-disk container version. Read accepts a
// container of any version, including one newer than FormatVersion (see
// Read); a version-1 reader ignores
// trailing sections it doesn't recognize (spec §4.7: "forward compatible:
// a version-1 reader ignores unknown trailing sections").
const FormatVersion = 1

// Header is the fixed-size prefix of every checkpoint file.
type Header struct {
	Magic       [4]byte
	Version     uint16
	SectionsLen uint32
	CreatedAt   int64 // unix nanos
	Checksum    uint32
}

// Section is one named, msgpack-encoded region of the container (regions,
// neurons, synapses, engine parameters, RNG state).
type Section struct {
	Name string
	Data []byte
}

// Container is the full decoded checkpoint.
type Container struct {
	Version   uint16
	CreatedAt int64
	Sections  map[string][]byte
}

// EncodeSection msgpack-encodes v into a named Section.
func EncodeSection(name string, v any) (Section, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return Section{}, fmt.Errorf("checkpoint: encode section %q: %w", name, err)
	}
	return Section{Name: name, Data: data}, nil
}

// DecodeSection msgpack-decodes a section's data into dst. Missing
// sections in an older container are the caller's responsibility to
// detect (via Container.Sections' absence) and fill with documented
// defaults (spec §4.7: "a version-2+ reader fills missing fields with
// documented defaults").
func DecodeSection(data []byte, dst any) error {
	if err := msgpack.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("checkpoint: decode section: %w", err)
	}
	return nil
}

// Write serializes sections into the versioned binary container format:
// header, then each section as (name-length, name, data-length, data).
func Write(w io.Writer, createdAtUnixNanos int64, sections []Section) error {
	body := new(bytes.Buffer)
	for _, s := range sections {
		if err := binary.Write(body, binary.LittleEndian, uint32(len(s.Name))); err != nil {
			return err
		}
		body.WriteString(s.Name)
		if err := binary.Write(body, binary.LittleEndian, uint32(len(s.Data))); err != nil {
			return err
		}
		body.Write(s.Data)
	}

	header := Header{
		Version:     FormatVersion,
		SectionsLen: uint32(len(sections)),
		CreatedAt:   createdAtUnixNanos,
		Checksum:    crc32.ChecksumIEEE(body.Bytes()),
	}
	copy(header.Magic[:], MagicBytes)

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("checkpoint: write header: %w", err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("checkpoint: write body: %w", err)
	}
	return nil
}

// Read parses a versioned binary container, verifying magic and checksum.
// A future-versioned container (Version > FormatVersion) is still parsed
// section-by-section on a best-effort basis, since the wire shape
// (length-prefixed name/data pairs) is stable across versions; callers
// should still check the returned Version before trusting novel section
// names.
func Read(r io.Reader) (Container, error) {
	var header Header
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return Container{}, fmt.Errorf("checkpoint: read header: %w", err)
	}
	if string(header.Magic[:]) != MagicBytes {
		return Container{}, fmt.Errorf("checkpoint: bad magic bytes")
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return Container{}, fmt.Errorf("checkpoint: read body: %w", err)
	}
	if crc32.ChecksumIEEE(body) != header.Checksum {
		return Container{}, fmt.Errorf("checkpoint: checksum mismatch")
	}

	buf := bytes.NewReader(body)
	sections := make(map[string][]byte, header.SectionsLen)
	for i := uint32(0); i < header.SectionsLen; i++ {
		var nameLen uint32
		if err := binary.Read(buf, binary.LittleEndian, &nameLen); err != nil {
			return Container{}, fmt.Errorf("checkpoint: read section %d name length: %w", i, err)
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(buf, nameBytes); err != nil {
			return Container{}, fmt.Errorf("checkpoint: read section %d name: %w", i, err)
		}

		var dataLen uint32
		if err := binary.Read(buf, binary.LittleEndian, &dataLen); err != nil {
			return Container{}, fmt.Errorf("checkpoint: read section %d data length: %w", i, err)
		}
		data := make([]byte, dataLen)
		if _, err := io.ReadFull(buf, data); err != nil {
			return Container{}, fmt.Errorf("checkpoint: read section %d data: %w", i, err)
		}

		sections[string(nameBytes)] = data
	}

	return Container{Version: header.Version, CreatedAt: header.CreatedAt, Sections: sections}, nil
}
