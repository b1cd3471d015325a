package event_test

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxbitcoins/internal/domain"
	"maxbitcoins/internal/event"
)

var pubA = strings.Repeat("a", 64)

func TestSerialize_ReferenceForm(t *testing.T) {
	got, err := event.Serialize(pubA, 1700000000, 1, [][]string{}, "hello")
	require.NoError(t, err)

	want := `[0,"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",1700000000,1,[],"hello"]`
	assert.Equal(t, want, string(got))

	id, err := event.ComputeID(pubA, 1700000000, 1, [][]string{}, "hello")
	require.NoError(t, err)
	sum := sha256.Sum256([]byte(want))
	assert.Equal(t, sum, id)
	assert.Equal(t, "bb46df8e0d14e08773c7c6c88dfbb0925e6432048a2f2e82592afa415462d62a", hex.EncodeToString(id[:]))
}

func TestSerialize_NilAndEmptyTagsAgree(t *testing.T) {
	a, err := event.Serialize(pubA, 1, 1, nil, "x")
	require.NoError(t, err)
	b, err := event.Serialize(pubA, 1, 1, [][]string{}, "x")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSerialize_Escaping(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"nul", "a\x00b", `"a\u0000b"`},
		{"backspace", "a\bb", `"a\u0008b"`},
		{"form feed", "a\fb", `"a\u000cb"`},
		{"unit separator", "a\x1fb", `"a\u001fb"`},
		{"html stays verbatim", "<a href='x'>&</a>", `"<a href='x'>&</a>"`},
		{"non-ascii stays verbatim", "⚡ sats für alle 🤙", `"⚡ sats für alle 🤙"`},
		{"line separator stays verbatim", "a\u2028b\u2029c", "\"a\u2028b\u2029c\""},
		{"del stays verbatim", "a\x7fb", "\"a\x7fb\""},
		{"empty", "", `""`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := event.Serialize(pubA, 0, 1, nil, tc.content)
			require.NoError(t, err)
			prefix := `[0,"` + pubA + `",0,1,[],`
			require.True(t, strings.HasPrefix(string(got), prefix))
			assert.Equal(t, tc.want+"]", strings.TrimPrefix(string(got), prefix))
		})
	}
}

func TestSerialize_Tags(t *testing.T) {
	tags := [][]string{{"t", "bitcoin"}, {"p", pubA, "wss://relay"}, {}}
	got, err := event.Serialize(pubA, 5, 1, tags, "")
	require.NoError(t, err)
	assert.Equal(t, `[0,"`+pubA+`",5,1,[["t","bitcoin"],["p","`+pubA+`","wss://relay"],[]],""]`, string(got))
}

func TestSerialize_LargeIntegers(t *testing.T) {
	got, err := event.Serialize(pubA, 9007199254740993, 30023, nil, "")
	require.NoError(t, err)
	assert.Contains(t, string(got), `,9007199254740993,30023,`)
}

func TestSerialize_RejectsInvalidUTF8(t *testing.T) {
	_, err := event.Serialize(pubA, 0, 1, nil, "bad \xff byte")
	assert.ErrorIs(t, err, domain.ErrSerialization)

	_, err = event.Serialize(pubA, 0, 1, [][]string{{"t", "\xc3"}}, "ok")
	assert.ErrorIs(t, err, domain.ErrSerialization)
}

func TestComputeID_DeterminismProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("same fields give the same id", prop.ForAll(
		func(createdAt int64, content string, tag string) bool {
			tags := [][]string{{"t", tag}}
			a, errA := event.ComputeID(pubA, createdAt, 1, tags, content)
			b, errB := event.ComputeID(pubA, createdAt, 1, tags, content)
			return errA == nil && errB == nil && a == b
		},
		gen.Int64Range(0, 1<<40),
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.Property("content changes change the id", prop.ForAll(
		func(content string) bool {
			a, errA := event.ComputeID(pubA, 1, 1, nil, content)
			b, errB := event.ComputeID(pubA, 1, 1, nil, content+"!")
			return errA == nil && errB == nil && a != b
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
