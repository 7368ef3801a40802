package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed templates/*.txt
var defaults embed.FS

const (
	fileIntroduction = "introduction.txt"
	filePre          = "pre.txt"
	filePost         = "post.txt"
)

// Templates holds the fixed prompt fragments wrapped around every question.
type Templates struct {
	Introduction string `json:"introduction"`
	Pre          string `json:"pre"`
	Post         string `json:"post"`
}

// Default returns the embedded templates.
func Default() Templates {
	t, err := load(defaults, "templates")
	if err != nil {
		// Embedded files are compiled in; a read failure is a build defect.
		panic(fmt.Sprintf("prompt: embedded templates: %v", err))
	}
	return t
}

// Load reads templates from dir, falling back to the embedded default for every
// file dir does not contain. An empty dir returns the defaults.
func Load(dir string) (Templates, error) {
	t := Default()
	if dir == "" {
		return t, nil
	}
	for name, dst := range map[string]*string{
		fileIntroduction: &t.Introduction,
		filePre:          &t.Pre,
		filePost:         &t.Post,
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Templates{}, fmt.Errorf("reading prompt %s: %w", name, err)
		}
		*dst = string(data)
	}
	return t, nil
}

func load(fsys fs.FS, dir string) (Templates, error) {
	read := func(name string) (string, error) {
		b, err := fs.ReadFile(fsys, dir+"/"+name)
		return string(b), err
	}
	var t Templates
	var err error
	if t.Introduction, err = read(fileIntroduction); err != nil {
		return Templates{}, err
	}
	if t.Pre, err = read(filePre); err != nil {
		return Templates{}, err
	}
	if t.Post, err = read(filePost); err != nil {
		return Templates{}, err
	}
	return t, nil
}

// Opening is the first-stage prompt: persona and introduction, no question yet.
func Opening(persona, introduction string) string {
	return persona + introduction
}

// Question is the second-stage prompt. It replays the opening and the agent's
// in-character reply before asking.
func (t Templates) Question(persona, introduction, reply, question string) string {
	return persona + introduction + reply + t.Pre + question + t.Post
}
