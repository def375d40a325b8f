package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestRawParsesBasicLines(t *testing.T) {
	input := "q a 10 1-10\nq b 5 20-30\n\n  \n"
	var recs []Record
	err := Raw(strings.NewReader(input), func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	expect.NoError(t, err)
	expect.EQ(t, len(recs), 2)
	expect.EQ(t, recs[0].QueryID, "q")
	expect.EQ(t, recs[0].Hit.Label, "a")
	expect.EQ(t, recs[0].Hit.RawScore, 10.0)
	expect.EQ(t, len(recs[0].Hit.Segments), 1)
}

func TestRawParsesDiscontiguousSegments(t *testing.T) {
	var recs []Record
	err := Raw(strings.NewReader("q a 10 1-20,60-80\n"), func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	expect.NoError(t, err)
	expect.EQ(t, len(recs), 1)
	expect.EQ(t, len(recs[0].Hit.Segments), 2)
}

func TestRawRejectsMalformedLine(t *testing.T) {
	err := Raw(strings.NewReader("q a notanumber 1-10\n"), func(Record) error { return nil })
	expect.True(t, err != nil)
}

func TestRawPropagatesEmitError(t *testing.T) {
	sentinel := errors.New("boom")
	err := Raw(strings.NewReader("q a 10 1-10\n"), func(Record) error { return sentinel })
	expect.EQ(t, err, sentinel)
}
