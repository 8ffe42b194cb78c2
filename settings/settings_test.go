package settings

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/textexpand/match"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, int64(300), d.DelayMS)
	assert.Equal(t, 300*time.Millisecond, d.Delay())
	assert.NotEmpty(t, d.Shortcuts)
	require.NoError(t, d.Validate())
}

func TestDiff(t *testing.T) {
	base := Settings{Shortcuts: match.TriggerMap{"a": "b"}, DelayMS: 300}

	assert.True(t, Diff(base, base.Clone()).Empty())

	u := Diff(base, Settings{Shortcuts: match.TriggerMap{"a": "c"}, DelayMS: 300})
	assert.Equal(t, match.TriggerMap{"a": "c"}, u.Triggers)
	assert.Nil(t, u.Delay)

	u = Diff(base, Settings{Shortcuts: match.TriggerMap{"a": "b"}, DelayMS: 0})
	assert.Nil(t, u.Triggers)
	require.NotNil(t, u.Delay)
	assert.Equal(t, time.Duration(0), *u.Delay)

	// Clearing every shortcut is a change, reported as an empty non-nil map.
	u = Diff(base, Settings{DelayMS: 300})
	require.NotNil(t, u.Triggers)
	assert.Empty(t, u.Triggers)
}

func TestDecode_Validation(t *testing.T) {
	cases := []struct {
		name    string
		format  Format
		in      string
		want    Settings
		wantErr error
	}{
		{
			name:   "json full",
			format: FormatJSON,
			in:     `{"shortcuts": {"brb": "be right back"}, "delay": 150}`,
			want:   Settings{Shortcuts: match.TriggerMap{"brb": "be right back"}, DelayMS: 150},
		},
		{
			name:   "json delay omitted",
			format: FormatJSON,
			in:     `{"shortcuts": {}}`,
			want:   Settings{Shortcuts: match.TriggerMap{}, DelayMS: DefaultDelayMS},
		},
		{
			name:   "json zero delay kept",
			format: FormatJSON,
			in:     `{"shortcuts": {"a": "b"}, "delay": 0}`,
			want:   Settings{Shortcuts: match.TriggerMap{"a": "b"}, DelayMS: 0},
		},
		{name: "missing shortcuts", format: FormatJSON, in: `{"delay": 10}`, wantErr: ErrInvalidShortcuts},
		{name: "shortcuts array", format: FormatJSON, in: `{"shortcuts": ["a"]}`, wantErr: ErrInvalidShortcuts},
		{name: "non-string expansion", format: FormatJSON, in: `{"shortcuts": {"a": 1}}`, wantErr: ErrInvalidShortcuts},
		{name: "empty trigger", format: FormatJSON, in: `{"shortcuts": {"": "x"}}`, wantErr: ErrEmptyTrigger},
		{name: "negative delay", format: FormatJSON, in: `{"shortcuts": {}, "delay": -1}`, wantErr: ErrInvalidDelay},
		{name: "string delay", format: FormatJSON, in: `{"shortcuts": {}, "delay": "300"}`, wantErr: ErrInvalidDelay},
		{name: "delay past int64", format: FormatJSON, in: `{"shortcuts": {}, "delay": 1e19}`, wantErr: ErrInvalidDelay},
		{name: "delay past duration", format: FormatJSON, in: `{"shortcuts": {}, "delay": 1e13}`, wantErr: ErrInvalidDelay},
		{name: "yaml infinite delay", format: FormatYAML, in: "shortcuts: {}\ndelay: .inf\n", wantErr: ErrInvalidDelay},
		{name: "yaml nan delay", format: FormatYAML, in: "shortcuts: {}\ndelay: .nan\n", wantErr: ErrInvalidDelay},
		{
			name:   "json largest delay",
			format: FormatJSON,
			in:     `{"shortcuts": {}, "delay": 9000000000000}`,
			want:   Settings{Shortcuts: match.TriggerMap{}, DelayMS: 9000000000000},
		},
		{
			name:   "yaml",
			format: FormatYAML,
			in:     "shortcuts:\n  omw: on my way\n  \"sig\": \"Best,\\nSam\"\ndelay: 250\n",
			want:   Settings{Shortcuts: match.TriggerMap{"omw": "on my way", "sig": "Best,\nSam"}, DelayMS: 250},
		},
		{name: "yaml non-string key", format: FormatYAML, in: "shortcuts:\n  1: one\n", wantErr: ErrInvalidShortcuts},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tc.in), tc.format)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecode_SyntaxError(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"shortcuts":`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json settings")
}

func TestEncode_RoundTrip(t *testing.T) {
	in := Settings{Shortcuts: match.TriggerMap{"brb": "be right back", "ty": "thank you"}, DelayMS: 120}
	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, in, f))
			out, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestEncode_JSONLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Settings{DelayMS: 5}, FormatJSON))
	assert.Equal(t, "{\n  \"shortcuts\": {},\n  \"delay\": 5\n}\n", buf.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("/x/settings.YML"))
	assert.Equal(t, FormatYAML, FormatForPath("settings.yaml"))
	assert.Equal(t, FormatJSON, FormatForPath("settings.json"))
	assert.Equal(t, FormatJSON, FormatForPath("settings"))

	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)
}
