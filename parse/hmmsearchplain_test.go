package parse

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
)

const sampleHmmsearchOutput = `Query:       myhmm  [M=100]
>> seq1
   #    score  bias  c-Evalue  i-Evalue hmmfrom  hmm to    alifrom  ali to    envfrom  env to     acc
 ---   ------ ----- --------- --------- ------- -------    ------- -------    ------- -------    ----
   1 !   45.2   0.1    1.2e-10   3.4e-09     1     120 []     5     130 ..     2     135 .. 0.95

  == domain 1  score: 45.2 bits;  conditional E-value: 1.2e-10
        myhmm  1 mkvlrtyfgh 10
                 5799*******
        seq1   5 mkvlrtyfgh 14

Internal pipeline statistics summary:
`

func TestHmmsearchPlainParsesHit(t *testing.T) {
	var recs []Record
	err := HmmsearchPlain(strings.NewReader(sampleHmmsearchOutput), HmmsearchOpts{}, func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	expect.NoError(t, err)
	expect.EQ(t, len(recs), 1)
	expect.EQ(t, recs[0].QueryID, "seq1")
	expect.EQ(t, recs[0].Hit.Label, "myhmm")
	expect.EQ(t, recs[0].Hit.RawScore, 45.2)
}

func TestHmmsearchPlainSkipsQueryWithNoHits(t *testing.T) {
	input := ">> seq1\nInternal pipeline statistics summary:\n"
	var recs []Record
	err := HmmsearchPlain(strings.NewReader(input), HmmsearchOpts{}, func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	expect.NoError(t, err)
	expect.EQ(t, len(recs), 0)
}
