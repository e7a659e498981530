package config

import (
	"os"
	"path/filepath"
	"testing"

	internal "github.com/ZanzyTHEbar/lockedme/lockedme"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	suite.tempDir = suite.T().TempDir()

	// Change to temp directory so the "." search path finds nothing by accident
	require.NoError(suite.T(), os.Chdir(suite.tempDir))
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
}

func (suite *ConfigTestSuite) writeConfig(name, content string) string {
	path := filepath.Join(suite.tempDir, name)
	require.NoError(suite.T(), os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), "", cfg.Directory)
	assert.False(suite.T(), cfg.StrictDirectory)
	assert.Equal(suite.T(), internal.DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Empty(suite.T(), cfg.AllowedExtensions)
	assert.Equal(suite.T(), internal.DefaultLogLevel, cfg.Log.Level)
	assert.Equal(suite.T(), internal.DefaultLogFormat, cfg.Log.Format)
}

func (suite *ConfigTestSuite) TestLoadConfigWithFile() {
	configFile := suite.writeConfig("config.yaml", `
directory: "/srv/files"
strictDirectory: true
maxAttempts: 5
allowedExtensions:
  - txt
  - .csv
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(configFile)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/srv/files", cfg.Directory)
	assert.True(suite.T(), cfg.StrictDirectory)
	assert.Equal(suite.T(), 5, cfg.MaxAttempts)
	assert.Equal(suite.T(), []string{"txt", "csv"}, cfg.AllowedExtensions)
	assert.Equal(suite.T(), "debug", cfg.Log.Level)
	assert.Equal(suite.T(), "json", cfg.Log.Format)
}

func (suite *ConfigTestSuite) TestLoadConfigFromSearchPath() {
	suite.writeConfig("config.yaml", "maxAttempts: 7\n")

	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 7, cfg.MaxAttempts)
}

func (suite *ConfigTestSuite) TestLoadConfigFromEnvironment() {
	suite.T().Setenv("LOCKEDME_DIRECTORY", "/from/env")
	suite.T().Setenv("LOCKEDME_LOG_LEVEL", "error")
	suite.T().Setenv("LOCKEDME_ALLOWEDEXTENSIONS", "txt,md")

	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/from/env", cfg.Directory)
	assert.Equal(suite.T(), "error", cfg.Log.Level)
	assert.Equal(suite.T(), []string{"txt", "md"}, cfg.AllowedExtensions)
}

func (suite *ConfigTestSuite) TestExplicitValuesOverrideFile() {
	configFile := suite.writeConfig("config.yaml", "directory: /from/file\n")

	v := viper.New()
	v.Set(KeyDirectory, "/from/flag")

	cfg, err := Load(v, configFile)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/from/flag", cfg.Directory)
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidFile() {
	// An explicit path that does not exist is an error, unlike an empty search
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestLoadConfigMalformedFile() {
	configFile := suite.writeConfig("malformed.yaml", `
directory: "/srv"
allowedExtensions: [unclosed bracket
`)

	cfg, err := LoadConfig(configFile)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestLoadConfigRejectsZeroAttempts() {
	configFile := suite.writeConfig("config.yaml", "maxAttempts: 0\n")

	cfg, err := LoadConfig(configFile)

	assert.ErrorIs(suite.T(), err, ErrInvalidConfig)
	assert.Nil(suite.T(), cfg)
}

func TestValidateNormalizesExtensions(t *testing.T) {
	cfg := Config{MaxAttempts: 3, AllowedExtensions: []string{" .TXT ", "log"}}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"TXT", "log"}, cfg.AllowedExtensions)

	cfg.AllowedExtensions = []string{"."}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
