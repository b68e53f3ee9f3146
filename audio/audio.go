// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Source is a stream of interleaved float32 samples in [-1,1].
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels per frame, 1 for mono.
	Channels() int
	// ReadSamples fills dst with whole frames and returns the number of
	// float32 values written. It returns io.EOF together with the last
	// samples, or with n == 0 once the stream is finished.
	ReadSamples(dst []float32) (n int, err error)
	// BufSize is the read size, in samples, the source works best with.
	BufSize() int
	// Close releases any resources held by the stream.
	Close() error
}

// Decoder turns an encoded file into a Source.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format names, usually file extensions, to decoders.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Decoder)}
}

// Register adds or replaces the decoder for format. Names are case
// insensitive and a leading dot is ignored.
func (r *Registry) Register(format string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.formats[formatKey(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.formats[formatKey(format)]
	return d, ok
}

// ForPath picks the decoder registered for the extension of path.
func (r *Registry) ForPath(path string) (Decoder, error) {
	ext := filepath.Ext(path)

	d, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%q: %w", ext, ErrUnknownFormat)
	}

	return d, nil
}

// Formats lists the registered names in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formats))
	for k := range r.formats {
		names = append(names, k)
	}
	sort.Strings(names)

	return names
}

func formatKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "."))
}

// ReadAll drains src and returns every sample it produced.
func ReadAll(src Source) ([]float32, error) {
	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	size -= size % src.Channels()
	if size == 0 {
		size = src.Channels()
	}

	var out []float32
	buf := make([]float32, size)

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			return out, fmt.Errorf("reading samples: %w", io.ErrNoProgress)
		}
	}
}
