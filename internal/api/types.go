package api

import "github.com/samcharles93/codeprep/internal/prep"

// PreprocessRequest carries one Java source file. Config defaults to the
// server's key.
type PreprocessRequest struct {
	Config string `json:"config,omitempty"`
	Source string `json:"source"`
	// Store keeps the result retrievable by id.
	Store *bool `json:"store,omitempty"`
}

type PreprocessResponse struct {
	ID        string   `json:"id"`
	Object    string   `json:"object"`
	CreatedAt int64    `json:"created_at"`
	Config    string   `json:"config"`
	Symbols   []string `json:"symbols"`
	Text      string   `json:"text"`
	Usage     Usage    `json:"usage"`
}

type Usage struct {
	Lines   int `json:"lines"`
	Symbols int `json:"symbols"`
}

type ConfigResponse struct {
	Object   string         `json:"object"`
	Key      string         `json:"key"`
	Settings []prep.Setting `json:"settings"`
	Passes   []string       `json:"passes"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Code    string `json:"code,omitempty"`
}
