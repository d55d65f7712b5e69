package editor

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func (s *Session) MarshalYAML() (interface{}, error) {
	return s.d, nil
}

func (s *Session) UnmarshalYAML(value *yaml.Node) error {
	var d sessionData
	if err := value.Decode(&d); err != nil {
		return err
	}
	return s.set(d)
}

func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.d)
}

func (s *Session) UnmarshalJSON(b []byte) error {
	var d sessionData
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	return s.set(d)
}

func (s *Session) set(d sessionData) error {
	if err := d.validate(); err != nil {
		return err
	}
	s.d = d
	if s.log == nil {
		s.setOptions(nil)
	}
	return nil
}

// ReadSession reads a session written by WriteJSON or WriteYAML.
func ReadSession(r io.Reader, opts ...Option) (*Session, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read session")
	}
	s := &Session{}
	s.setOptions(opts)
	if errJSON := json.Unmarshal(b, s); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, s); errYaml != nil {
			if errors.Is(errJSON, ErrInvalidSession) {
				return nil, errJSON
			}
			return nil, errors.Wrap(errYaml, "could not unmarshal session")
		}
	}
	return s, nil
}

// WriteYAML writes the session as YAML.
func (s *Session) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "could not marshal session")
	}
	return enc.Close()
}

// WriteJSON writes the session as indented JSON.
func (s *Session) WriteJSON(w io.Writer) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not marshal session")
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Load reads a session file.
func Load(path string, opts ...Option) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadSession(f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %v", path)
	}
	return s, nil
}

// Save writes the session to a file: JSON if the file name ends with .json,
// YAML otherwise. The file is replaced only after the whole session has been
// marshaled.
func (s *Session) Save(path string) error {
	var buf bytes.Buffer
	var err error
	if filepath.Ext(path) == ".json" {
		err = s.WriteJSON(&buf)
	} else {
		err = s.WriteYAML(&buf)
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return errors.Wrapf(err, "could not create directory %v", dir)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
