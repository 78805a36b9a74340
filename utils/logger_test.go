/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel(" warning "))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestNewLoggerIsRegistered(t *testing.T) {
	a := NewLogger("REGISTRY")
	b := NewLogger("REGISTRY")
	assert.Same(t, a, b)

	assert.True(t, SetLoggerLevel("REGISTRY", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("MISSING", "error"))
}

func TestLog4jFormatterAppendsFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&Log4jColorFormatter{LoggerName: "TEST", NameWidth: 10, NoColor: true})

	l.WithFields(logrus.Fields{"table": "tbl_member", "rows": 12}).Info("seeded")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "TEST")
	assert.Contains(t, out, ": seeded rows=12 table=tbl_member")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&JSONLogFormatter{LoggerName: "TEST"})

	l.WithField("error", errors.New("boom")).Warn("query failed")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, "TEST", rec["logger"])
	assert.Equal(t, "query failed", rec["message"])
	assert.Equal(t, map[string]interface{}{"error": "boom"}, rec["fields"])
}

func TestCallerString(t *testing.T) {
	assert.Equal(t, "query/query.go:42", callerString("/src/study/query/query.go", 42, 0))
	assert.Equal(t, "query.go:42", callerString("/src/study/query/query.go", 42, 12))
}

func TestSince(t *testing.T) {
	s := Since(time.Now().Add(-1500 * time.Microsecond))
	assert.True(t, strings.HasSuffix(s, "ms"), s)
	assert.NotEqual(t, "0.000ms", s)
}

func TestConfigureLogOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("OUTPUT_TEST")
	l.SetLevel(logrus.InfoLevel)
	ConfigureLogOutput(&buf)
	t.Cleanup(func() { ConfigureLogOutput(os.Stdout) })

	l.Info("redirected")
	assert.Contains(t, buf.String(), "redirected")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("STUDY_FLAG", "true")
	t.Setenv("STUDY_BAD_FLAG", "maybe")
	assert.True(t, EnvDefaultBool("STUDY_FLAG", false))
	assert.True(t, EnvDefaultBool("STUDY_BAD_FLAG", true))
	assert.False(t, EnvDefaultBool("STUDY_UNSET_FLAG", false))
}
