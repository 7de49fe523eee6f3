package models

import (
	"time"
)

// Canonical file names every generated project is guaranteed to contain.
const (
	IndexHTML = "index.html"
	StylesCSS = "styles.css"
	ScriptJS  = "script.js"
)

// CanonicalFiles lists the canonical files in the order they are appended.
var CanonicalFiles = []string{IndexHTML, StylesCSS, ScriptJS}

type Project struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Files        []ProjectFile `json:"files"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastModified time.Time     `json:"lastModified"`
}

type ProjectFile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Content      string    `json:"content"`
	Language     string    `json:"language"`
	LastModified time.Time `json:"lastModified"`
}

// FileByName returns the index of the file called name, or -1.
func (p *Project) FileByName(name string) int {
	for i := range p.Files {
		if p.Files[i].Name == name {
			return i
		}
	}
	return -1
}

// FileByID returns the index of the file with the given id, or -1.
func (p *Project) FileByID(id string) int {
	for i := range p.Files {
		if p.Files[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate files without touching p.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Files = make([]ProjectFile, len(p.Files))
	copy(cp.Files, p.Files)
	return &cp
}

// FileMap returns a name to content mapping of all files.
func (p *Project) FileMap() map[string]string {
	out := make(map[string]string, len(p.Files))
	for _, f := range p.Files {
		out[f.Name] = f.Content
	}
	return out
}

// ProjectSummary is the listing view of a stored project.
type ProjectSummary struct {
	Key          string    `json:"key"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FileCount    int       `json:"fileCount"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}
