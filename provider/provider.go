// Package provider holds upstream translation backends for the coordinator.
package provider

import "github.com/ZaguanLabs/lingoq"

// AIProvider is the interface for AI translation backends.
// This is an alias to the main package interface for convenience.
type AIProvider = lingoq.AIProvider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = lingoq.TranslateRequest
