package multipart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	stdmultipart "mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"embedhttp/internal/http/param"

	"github.com/google/uuid"
)

const (
	defaultMaxValueSize = 64 << 10
	mediaType           = "multipart/form-data"
)

var (
	ErrNotMultipart  = errors.New("content type is not multipart/form-data")
	ErrMissingBound  = errors.New("multipart content type has no boundary")
	ErrValueTooLarge = errors.New("multipart field value too large")
	ErrFileTooLarge  = errors.New("uploaded file too large")
)

// UploadedFile describes one file part stored on disk.
type UploadedFile struct {
	FieldName string
	FileName  string
	Path      string
	Size      int64
}

// Destroy removes the stored file. Removing an already removed file is not
// an error.
func (f UploadedFile) Destroy() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type Options struct {
	TempDir      string
	MaxValueSize int64
	MaxFileSize  int64
}

type Result struct {
	Files  []UploadedFile
	Params map[string]string
}

// Boundary extracts the boundary parameter of a multipart/form-data
// Content-Type value.
func Boundary(contentType string) (string, error) {
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.EqualFold(mt, mediaType) {
		return "", ErrNotMultipart
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", ErrMissingBound
	}
	return boundary, nil
}

// IsMultipart reports whether contentType names multipart/form-data.
func IsMultipart(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.EqualFold(mt, mediaType)
}

// Decode reads every part from r. File parts are written under
// opts.TempDir with random names, other parts become parameters. On error
// every file stored so far is removed.
func Decode(r io.Reader, boundary string, opts Options) (res Result, err error) {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.MaxValueSize <= 0 {
		opts.MaxValueSize = defaultMaxValueSize
	}

	res.Params = make(map[string]string)
	defer func() {
		if err != nil {
			for _, f := range res.Files {
				_ = f.Destroy()
			}
			res = Result{}
		}
	}()

	cw := newCloseWatcher(r, boundary)
	mr := stdmultipart.NewReader(cw, boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			if !cw.seen {
				return res, fmt.Errorf("read part: closing delimiter missing: %w", io.ErrUnexpectedEOF)
			}
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("read part: %w", err)
		}

		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}

		if part.FileName() == "" {
			value, err := readValue(part, opts.MaxValueSize)
			_ = part.Close()
			if err != nil {
				return res, err
			}
			if err := param.CheckKey(name); err != nil {
				return res, err
			}
			res.Params[name] = value
			continue
		}

		file, err := store(part, name, opts)
		_ = part.Close()
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, file)
	}
}

// closeWatcher passes reads through and records whether the closing
// "--boundary--" delimiter went by. mime/multipart reports a body cut off
// before its first boundary line as a clean io.EOF.
type closeWatcher struct {
	r     io.Reader
	delim []byte
	tail  []byte
	seen  bool
}

func newCloseWatcher(r io.Reader, boundary string) *closeWatcher {
	return &closeWatcher{r: r, delim: []byte("--" + boundary + "--")}
}

func (c *closeWatcher) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && !c.seen {
		window := append(c.tail, p[:n]...)
		if bytes.Contains(window, c.delim) {
			c.seen = true
			c.tail = nil
		} else {
			keep := len(c.delim) - 1
			if len(window) < keep {
				keep = len(window)
			}
			c.tail = append(c.tail[:0:0], window[len(window)-keep:]...)
		}
	}
	return n, err
}

func readValue(r io.Reader, limit int64) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read field: %w", err)
	}
	if int64(len(b)) > limit {
		return "", ErrValueTooLarge
	}
	return string(b), nil
}

func store(part *stdmultipart.Part, field string, opts Options) (UploadedFile, error) {
	path := filepath.Join(opts.TempDir, uuid.New().String())
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("create upload file: %w", err)
	}

	var src io.Reader = part
	if opts.MaxFileSize > 0 {
		src = io.LimitReader(part, opts.MaxFileSize+1)
	}

	size, copyErr := io.Copy(out, src)
	closeErr := out.Close()
	if copyErr == nil && opts.MaxFileSize > 0 && size > opts.MaxFileSize {
		copyErr = ErrFileTooLarge
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(path)
		return UploadedFile{}, fmt.Errorf("store upload %q: %w", part.FileName(), copyErr)
	}

	return UploadedFile{
		FieldName: field,
		FileName:  filepath.Base(part.FileName()),
		Path:      path,
		Size:      size,
	}, nil
}
