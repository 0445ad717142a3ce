package dictionary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLayout(t *testing.T) {
	wp := NewWordProperty("colour",
		Flags{NotAWord: true, Blacklisted: true},
		NewProbabilityInfo(90, 1700000000, 1, 4),
		[]Bigram{
			NewBigram("scheme", NewProbabilityInfo(60, 1700000050, 2, 2)),
			NewBigram("blind", NewProbabilityInfo(30, NotAValidTimestamp, 0, 0)),
		},
		[]WeightedString{{Word: "color", Weight: 15}},
	)

	want := " word=colour,f=90,not_a_word=true,blacklisted=true,historicalInfo=1700000000:1:4\n" +
		"  bigram=scheme,f=60,historicalInfo=1700000050:2:2\n" +
		"  bigram=blind,f=30\n" +
		"  shortcut=color,f=15\n"
	assert.Equal(t, want, Render(wp))
	assert.Equal(t, want, wp.String())
}

func TestRenderInvalidEntry(t *testing.T) {
	wp := NewWordProperty("gone", Flags{}, NewProbabilityInfo(NotAProbability, NotAValidTimestamp, 0, 0), nil, nil)
	assert.Equal(t, " word=gone,f=-1\n", Render(wp))
	assert.False(t, wp.IsValid())
}

func TestParseCombinedRoundTrip(t *testing.T) {
	input := `# combined dictionary
 word=hello,f=120
  bigram=world,f=80
  bigram=there,f=40,historicalInfo=1700000000:1:2
  shortcut=hi,f=12

 word=naïve,f=70,blacklisted=true,historicalInfo=1699999999:0:1
 word=zzz,f=-1,not_a_word=true
`
	props, err := ParseCombined(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, props, 3)

	hello := props[0]
	assert.Equal(t, "hello", hello.Word())
	assert.True(t, hello.HasBigrams())
	assert.True(t, hello.HasShortcuts())
	assert.Equal(t, []WeightedString{{Word: "world", Weight: 80}, {Word: "there", Weight: 40}}, hello.BigramTargets())
	assert.True(t, hello.BigramProbabilityInfo()[1].HasHistoricalInfo())

	assert.True(t, props[1].IsBlacklisted())
	assert.True(t, props[1].ProbabilityInfo().HasHistoricalInfo())
	assert.False(t, props[2].IsValid())
	assert.True(t, props[2].IsNotAWord())

	var rendered strings.Builder
	for _, wp := range props {
		rendered.WriteString(Render(wp))
	}
	reparsed, err := ParseCombined(strings.NewReader(rendered.String()))
	require.NoError(t, err)
	assert.Equal(t, props, reparsed)
}

func TestRenderParseWordsWithCommas(t *testing.T) {
	wp := NewWordProperty("e.g.,", Flags{},
		NewProbabilityInfo(10, 1700000000, 0, 1),
		[]Bigram{NewBigram("1,000", NewProbabilityInfo(5, NotAValidTimestamp, 0, 0))},
		[]WeightedString{{Word: "a,f=b", Weight: 3}},
	)
	rendered := Render(wp)
	assert.Equal(t, " word=e.g.,,f=10,historicalInfo=1700000000:0:1\n"+
		"  bigram=1,000,f=5\n"+
		"  shortcut=a,f=b,f=3\n", rendered)

	props, err := ParseCombined(strings.NewReader(rendered))
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, wp, props[0])
}

func TestParseCombinedErrors(t *testing.T) {
	testCases := []struct {
		input       string
		description string
	}{
		{"  bigram=world,f=80\n", "bigram before word"},
		{"  shortcut=hi,f=1\n", "shortcut before word"},
		{" word=hello\n", "missing frequency"},
		{" word=hello,f=abc\n", "non numeric frequency"},
		{" word=hello,f=300\n", "frequency out of range"},
		{" word=hello,f=10,historicalInfo=10:1\n", "short historical info"},
		{" word=hello,f=10,historicalInfo=10:1700000000:0:0\n", "four field historical info"},
		{" word=hello,f=10,historicalInfo=-1:0:0\n", "historical info without timestamp"},
		{" word=hello,f=10,historicalInfo=x:0:0\n", "non numeric historical info"},
		{" word=hello,f=10\n  shortcut=hi,f=-2\n", "negative shortcut weight"},
		{" word=hello,f=10\n  unigram\n", "field without value"},
		{" word=hello,f=10\n  other=x\n", "unknown tag"},
		{" word=hello,f=10\n  bigram=wo\x00rld,f=5\n", "terminator in bigram target"},
		{" word=,f=10\n", "empty word"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := ParseCombined(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line ")
		})
	}
}
