package attacks

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	cacheMagic   = "MGTB"
	CacheVersion = 1

	// verifySamples is the number of random occupancies checked per square
	// when a cache is loaded.
	verifySamples = 8
)

var (
	ErrCacheMagic   = errors.New("not a magic table cache")
	ErrCacheVersion = errors.New("magic table cache version mismatch")
	ErrCacheCorrupt = errors.New("magic table cache corrupt")
)

// Save writes the tables in the versioned cache format.
func (t *Tables) Save(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString(cacheMagic)
	le := binary.LittleEndian
	var scratch [8]byte

	le.PutUint16(scratch[:2], CacheVersion)
	buf.Write(scratch[:2])
	for _, s := range []Slider{Rook, Bishop} {
		table := t.magics(s)
		for sq := 0; sq < 64; sq++ {
			m := &table[sq]
			le.PutUint64(scratch[:], m.Mask)
			buf.Write(scratch[:])
			le.PutUint64(scratch[:], m.Magic)
			buf.Write(scratch[:])
			buf.WriteByte(m.Shift)
			le.PutUint32(scratch[:4], uint32(len(m.Attacks)))
			buf.Write(scratch[:4])
			for _, a := range m.Attacks {
				le.PutUint64(scratch[:], a)
				buf.Write(scratch[:])
			}
		}
	}
	le.PutUint32(scratch[:4], crc32.ChecksumIEEE(buf.Bytes()))
	buf.Write(scratch[:4])

	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "writing magic table cache")
}

// Load reads tables written by Save and verifies them.
func Load(r io.Reader) (*Tables, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, errors.Wrap(err, "reading magic table cache")
	}
	if len(data) < len(cacheMagic)+2+4 || string(data[:len(cacheMagic)]) != cacheMagic {
		return nil, ErrCacheMagic
	}
	le := binary.LittleEndian
	if v := le.Uint16(data[len(cacheMagic):]); v != CacheVersion {
		return nil, errors.Wrapf(ErrCacheVersion, "got %d want %d", v, CacheVersion)
	}
	body, trailer := data[:len(data)-4], data[len(data)-4:]
	if crc32.ChecksumIEEE(body) != le.Uint32(trailer) {
		return nil, errors.Wrap(ErrCacheCorrupt, "checksum")
	}

	rd := bytes.NewReader(body[len(cacheMagic)+2:])
	t := &Tables{}
	for _, s := range []Slider{Rook, Bishop} {
		table := t.magics(s)
		for sq := 0; sq < 64; sq++ {
			var hdr struct {
				Mask  uint64
				Magic uint64
				Shift uint8
				Count uint32
			}
			if err := binary.Read(rd, le, &hdr); err != nil {
				return nil, errors.Wrapf(ErrCacheCorrupt, "%s square %d header: %v", s, sq, err)
			}
			if hdr.Shift < 52 || hdr.Shift > 59 || hdr.Count != 1<<(64-uint32(hdr.Shift)) {
				return nil, errors.Wrapf(ErrCacheCorrupt, "%s square %d shift %d count %d", s, sq, hdr.Shift, hdr.Count)
			}
			if hdr.Mask != s.Mask(sq) {
				return nil, errors.Wrapf(ErrCacheCorrupt, "%s square %d mask", s, sq)
			}
			m := Magic{Mask: hdr.Mask, Magic: hdr.Magic, Shift: hdr.Shift, Attacks: make([]uint64, hdr.Count)}
			if err := binary.Read(rd, le, m.Attacks); err != nil {
				return nil, errors.Wrapf(ErrCacheCorrupt, "%s square %d entries: %v", s, sq, err)
			}
			table[sq] = m
		}
	}
	if rd.Len() != 0 {
		return nil, errors.Wrapf(ErrCacheCorrupt, "%d trailing bytes", rd.Len())
	}
	if err := t.Verify(verifySamples); err != nil {
		return nil, errors.Wrap(ErrCacheCorrupt, err.Error())
	}
	return t, nil
}

// LoadOrBuild loads the cache at path. A missing, stale or corrupt cache is
// rebuilt and rewritten; failing to write it back is only logged.
func LoadOrBuild(path string) (*Tables, error) {
	if path == "" {
		return Build()
	}
	f, err := os.Open(path)
	if err == nil {
		t, lerr := Load(f)
		f.Close()
		if lerr == nil {
			log.Debug().Str("path", path).Msg("magic-cache-loaded")
			return t, nil
		}
		log.Warn().Err(lerr).Str("path", path).Msg("magic-cache-rejected")
	} else if !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("magic-cache-unreadable")
	}

	t, err := Build()
	if err != nil {
		return nil, err
	}
	if err := writeCache(path, t); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("magic-cache-write-failed")
	} else {
		log.Info().Str("path", path).Msg("magic-cache-written")
	}
	return t, nil
}

func writeCache(path string, t *Tables) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating cache directory")
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "creating cache file")
	}
	if err := t.Save(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "closing cache file")
	}
	return errors.Wrap(os.Rename(tmp, path), "renaming cache file")
}
