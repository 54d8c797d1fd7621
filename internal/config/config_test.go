// Copyright 2026 The Sycoca Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/googlecloudplatform/sycoca/internal/config"
)

func TestBindFlagsAndUnmarshalRoundTrip(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	v := viper.New()
	require.NoError(t, config.BindFlags(flagSet, v))
	require.NoError(t, flagSet.Parse([]string{
		"--strategy=file",
		"--throttle-interval=3s",
		"--generation=2",
		"--noincremental",
	}))

	c, err := config.Unmarshal(v)
	require.NoError(t, err)
	require.Equal(t, config.StrategyFile, c.Strategy)
	require.Equal(t, 3*time.Second, c.ThrottleInterval)
	require.Equal(t, config.Generation(2), c.Generation)
	require.True(t, c.NoIncremental)
}

func TestParseStrategyRejectsUnknownValue(t *testing.T) {
	_, err := config.ParseStrategy("carrier-pigeon")
	require.Error(t, err)
}

func TestCachePathHonorsOverrideEnvVar(t *testing.T) {
	t.Setenv("SYCOCA_DB_PATH", "/tmp/my-override-path")
	c := &config.Config{}
	require.Equal(t, "/tmp/my-override-path", c.CachePath())
}

func TestCachePathIsStableForSameInputs(t *testing.T) {
	t.Setenv("SYCOCA_DB_PATH", "")
	c1 := &config.Config{CacheHome: "/cache", Language: "en", DataDirs: []string{"/a", "/b"}}
	c2 := &config.Config{CacheHome: "/cache", Language: "en", DataDirs: []string{"/a", "/b"}}
	require.Equal(t, c1.CachePath(), c2.CachePath())

	c3 := &config.Config{CacheHome: "/cache", Language: "en", DataDirs: []string{"/a", "/c"}}
	require.NotEqual(t, c1.CachePath(), c3.CachePath())
}

func TestLoadProfileParsesOrderedDefaultsAndDisabledEntries(t *testing.T) {
	p, err := config.LoadProfile(strings.NewReader(
		"[FakePluginType]\nDefault_2=faketextplugin\nDefault_1=fakeservice\nDisabledEntries=oldservice\n"))
	require.NoError(t, err)

	overlay, ok := p.ServiceTypes["FakePluginType"]
	require.True(t, ok)
	require.Equal(t, []string{"fakeservice", "faketextplugin"}, overlay.Preferred)
	require.Equal(t, []string{"oldservice"}, overlay.Disabled)
}

func TestLoadProfileFileMissingIsNotAnError(t *testing.T) {
	p, err := config.LoadProfileFile("/nonexistent/path/to/profile")
	require.NoError(t, err)
	require.Empty(t, p.ServiceTypes)
}
