package domain

import (
	"encoding/json"
	"fmt"
)

// Record is one documentation unit: a single JSON object on one line of a
// corpus file. Content (or Markdown, for per-module docs) is the heavy body
// field that the sidecar index exists to avoid loading.
type Record struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	RelPath    string     `json:"rel_path"`
	Module     string     `json:"module,omitempty"`
	Content    string     `json:"content,omitempty"`
	Markdown   string     `json:"markdown,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Body returns the record's text body, preferring content over markdown.
func (r *Record) Body() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Markdown
}

// Property describes one property of a business object type.
type Property struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	DataType string `json:"data_type"`
	BOTitle  string `json:"bo_title"`
}

// Meta is the lightweight per-record metadata kept in the sidecar index.
type Meta struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	RelPath string `json:"rel_path"`
}

// IndexEntry locates one record inside the corpus file. It is serialized as
// a 3-element array [offset, title, rel_path] to keep the sidecar compact.
type IndexEntry struct {
	Offset  int64
	Title   string
	RelPath string
}

func (e IndexEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{e.Offset, e.Title, e.RelPath})
}

func (e *IndexEntry) UnmarshalJSON(data []byte) error {
	var raw [3]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("index entry must be a 3-element array: %w", err)
	}
	if err := json.Unmarshal(raw[0], &e.Offset); err != nil {
		return fmt.Errorf("index entry offset: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Title); err != nil {
		return fmt.Errorf("index entry title: %w", err)
	}
	if err := json.Unmarshal(raw[2], &e.RelPath); err != nil {
		return fmt.Errorf("index entry rel_path: %w", err)
	}
	return nil
}

// TitleEntry is one row of the flat title index, serialized as
// [title, module, id].
type TitleEntry struct {
	Title  string
	Module string
	ID     string
}

func (e TitleEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{e.Title, e.Module, e.ID})
}

func (e *TitleEntry) UnmarshalJSON(data []byte) error {
	var raw [3]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("title entry must be a 3-element array: %w", err)
	}
	e.Title, e.Module, e.ID = raw[0], raw[1], raw[2]
	return nil
}

// ModuleInfo is one entry of the module manifest.
type ModuleInfo struct {
	Module  string `json:"module"`
	File    string `json:"file"`
	Records int    `json:"records"`
}

// Manifest lists the per-module corpus files of a documentation set.
type Manifest struct {
	Modules []ModuleInfo `json:"modules"`
}
