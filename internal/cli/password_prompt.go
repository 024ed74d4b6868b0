package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// secretReader reads one line per call from a shared buffer, hiding input
// when the file is a terminal. Piped input is read as-is.
type secretReader struct {
	file   *os.File
	reader *bufio.Reader
}

func newSecretReader(file *os.File) *secretReader {
	return &secretReader{file: file, reader: bufio.NewReader(file)}
}

func (secrets *secretReader) ReadSecret() ([]byte, error) {
	if secrets.file == nil {
		return nil, errors.New("stdin unavailable")
	}

	if restore, err := disableEcho(secrets.file); err == nil {
		defer restore()
	}

	line, err := secrets.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if line == "" && errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
