package site

import (
	"github.com/goliatone/go-site/internal/projectconfig"
	"github.com/goliatone/go-site/internal/runtimeconfig"
)

var (
	ErrContentRootRequired     = runtimeconfig.ErrContentRootRequired
	ErrCollectionNameRequired  = runtimeconfig.ErrCollectionNameRequired
	ErrCollectionDuplicate     = runtimeconfig.ErrCollectionDuplicate
	ErrCollectionBaseRequired  = runtimeconfig.ErrCollectionBaseRequired
	ErrWordsPerMinuteInvalid   = runtimeconfig.ErrWordsPerMinuteInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	CollectionConfig     = runtimeconfig.CollectionConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	AssetsConfig         = runtimeconfig.AssetsConfig
	ProjectConfig        = runtimeconfig.ProjectConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig

	Project = projectconfig.Project
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
