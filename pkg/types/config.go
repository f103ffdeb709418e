// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "kg-reconciler/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClassifyConfig holds settings for the identifier classification stage.
type ClassifyConfig struct {
	// OutDir is the directory for compendia JSONL and mapping reports.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// LimitPerType caps rows per node type for sampling runs (0 = no limit).
	LimitPerType int `json:"limit_per_type" yaml:"limit_per_type"`

	// UnmappedExamples caps the diagnostic examples retained per node type
	// for identifiers that could not be classified (default 5).
	UnmappedExamples int `json:"unmapped_examples" yaml:"unmapped_examples"`
}

// NormalizeConfig holds settings for calls to the node-normalization service.
type NormalizeConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the get_normalized_nodes URL of the service.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// BatchSize is the number of CURIEs sent per request (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// BatchDelay is the pause between consecutive batches (default 100ms),
	// respecting the service's rate limits.
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay"`

	// APIKey is an optional key sent as x-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// CombineConfig holds settings for the entity merge stage.
type CombineConfig struct {
	// Strategy selects the merge strategy: union, intersection,
	// confidence, or type.
	Strategy string `json:"strategy" yaml:"strategy"`

	// LeftWeight is the base confidence weight for the first (left-hand)
	// source in the confidence strategy (default 0.6). The right-hand
	// source receives 1 - LeftWeight.
	LeftWeight float64 `json:"left_weight" yaml:"left_weight"`
}

// IndexConfig holds settings for the SQLite entity index.
type IndexConfig struct {
	// IndexDir is the directory containing the index database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServiceConfig holds settings for running a local normalization service
// container.
type ServiceConfig struct {
	// Image is the container image for the normalization service.
	Image string `json:"image" yaml:"image"`

	// Port is the host port the service is published on (default 8000).
	Port int `json:"port" yaml:"port"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Classify  ClassifyConfig  `json:"classify" yaml:"classify"`
	Normalize NormalizeConfig `json:"normalize" yaml:"normalize"`
	Combine   CombineConfig   `json:"combine" yaml:"combine"`
	Index     IndexConfig     `json:"index" yaml:"index"`
	Service   ServiceConfig   `json:"service" yaml:"service"`
}
