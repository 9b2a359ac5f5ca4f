package boxscore

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
)

// Loader reads the CSV archive from a data directory. Files may be stored
// gzip-compressed; the loader tries the requested name, then the name with
// or without a ".gz" suffix.
type Loader struct {
	DataDir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{DataDir: dir}
}

// Boxscore loads the per-player-per-game stat lines.
func (l *Loader) Boxscore(filename string) ([]Line, error) {
	var lines []Line
	if err := decodeFile(filepath.Join(l.DataDir, filename), &lines); err != nil {
		return nil, fmt.Errorf("load boxscore: %w", err)
	}
	return lines, nil
}

// Games loads the per-game metadata rows.
func (l *Loader) Games(filename string) ([]Game, error) {
	var games []Game
	if err := decodeFile(filepath.Join(l.DataDir, filename), &games); err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}
	return games, nil
}

// Players loads the player biography table.
func (l *Loader) Players(filename string) ([]Player, error) {
	var players []Player
	if err := decodeFile(filepath.Join(l.DataDir, filename), &players); err != nil {
		return nil, fmt.Errorf("load player info: %w", err)
	}
	return players, nil
}

// Images loads the player image lookup table. A missing file is not an
// error: image enrichment is optional.
func (l *Loader) Images(filename string) ([]PlayerImage, error) {
	var images []PlayerImage
	err := decodeFile(filepath.Join(l.DataDir, filename), &images)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load player images: %w", err)
	}
	return images, nil
}

func decodeFile(path string, out any) error {
	f, err := openMaybeGzip(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	dec, err := csvutil.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	// Unknown columns in newer exports are ignored rather than rejected.
	dec.DisallowMissingColumns = false

	return decodeAll(dec, out)
}

func decodeAll(dec *csvutil.Decoder, out any) error {
	switch rows := out.(type) {
	case *[]Line:
		for {
			var rec Line
			if err := dec.Decode(&rec); err == io.EOF {
				return nil
			} else if err != nil {
				return fmt.Errorf("decode line: %w", err)
			}
			*rows = append(*rows, rec)
		}
	case *[]Game:
		for {
			var rec Game
			if err := dec.Decode(&rec); err == io.EOF {
				return nil
			} else if err != nil {
				return fmt.Errorf("decode game: %w", err)
			}
			*rows = append(*rows, rec)
		}
	case *[]Player:
		for {
			var rec Player
			if err := dec.Decode(&rec); err == io.EOF {
				return nil
			} else if err != nil {
				return fmt.Errorf("decode player: %w", err)
			}
			*rows = append(*rows, rec)
		}
	case *[]PlayerImage:
		for {
			var rec PlayerImage
			if err := dec.Decode(&rec); err == io.EOF {
				return nil
			} else if err != nil {
				return fmt.Errorf("decode image: %w", err)
			}
			*rows = append(*rows, rec)
		}
	default:
		return fmt.Errorf("unsupported row type %T", out)
	}
}

// openMaybeGzip opens path, falling back to the compressed or uncompressed
// variant of the same name, and transparently decompresses ".gz" files.
func openMaybeGzip(path string) (io.ReadCloser, error) {
	candidates := []string{path}
	if strings.HasSuffix(path, ".gz") {
		candidates = append(candidates, strings.TrimSuffix(path, ".gz"))
	} else {
		candidates = append(candidates, path+".gz")
	}

	var f *os.File
	var err error
	var chosen string
	for _, c := range candidates {
		f, err = os.Open(c)
		if err == nil {
			chosen = c
			break
		}
	}
	if f == nil {
		return nil, err
	}

	if strings.HasSuffix(chosen, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip %s: %w", chosen, err)
		}
		return &gzipFile{gz: gz, f: f}, nil
	}
	return f, nil
}

type gzipFile struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipFile) Close() error {
	gzErr := g.gz.Close()
	fErr := g.f.Close()
	if gzErr != nil {
		return gzErr
	}
	return fErr
}
