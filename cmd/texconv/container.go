package main

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/deepteams/texcomp"
	"github.com/deepteams/texcomp/internal/imgfmt"
)

// magic identifies the minimal .texcomp container this command reads and
// writes: a fixed 20-byte header (magic, format ordinal, width, height, row
// pitch) followed by the raw pixel/block bytes. There is no compression of
// the container itself and no mip chain — one image per file, matching the
// scope of the core library's Image type.
var magic = [4]byte{'T', 'X', 'C', '1'}

func writeContainer(w io.Writer, img texcomp.Image) error {
	var hdr [20]byte
	copy(hdr[0:4], magic[:])
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(img.Format))
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(img.Width))
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(img.Height))
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(img.RowPitch))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(img.Bytes)
	return err
}

func readContainer(r io.Reader) (texcomp.Image, error) {
	var hdr [20]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return texcomp.Image{}, fmt.Errorf("reading container header: %w", err)
	}
	if hdr[0] != magic[0] || hdr[1] != magic[1] || hdr[2] != magic[2] || hdr[3] != magic[3] {
		return texcomp.Image{}, fmt.Errorf("not a texcomp container (bad magic)")
	}
	format := imgfmt.Format(binary.LittleEndian.Uint32(hdr[4:8]))
	width := int(binary.LittleEndian.Uint32(hdr[8:12]))
	height := int(binary.LittleEndian.Uint32(hdr[12:16]))
	rowPitch := int(binary.LittleEndian.Uint32(hdr[16:20]))

	data, err := io.ReadAll(r)
	if err != nil {
		return texcomp.Image{}, fmt.Errorf("reading container body: %w", err)
	}
	return texcomp.Image{Format: format, Width: width, Height: height, RowPitch: rowPitch, Bytes: data}, nil
}
