// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
)

// File is an in-memory io.WriteSeeker for encoders that patch their
// headers after the data is written.
type File struct {
	data []byte
	pos  int
}

func (f *File) Write(p []byte) (int, error) {
	if end := f.pos + len(p); end > len(f.data) {
		f.data = append(f.data, make([]byte, end-len(f.data))...)
	}
	n := copy(f.data[f.pos:], p)
	f.pos += n

	return n, nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(f.pos) + offset
	case io.SeekEnd:
		abs = int64(len(f.data)) + offset
	default:
		return 0, errors.New("audiotest: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("audiotest: negative position")
	}

	f.pos = int(abs)
	return abs, nil
}

// Bytes returns everything written so far.
func (f *File) Bytes() []byte { return f.data }
