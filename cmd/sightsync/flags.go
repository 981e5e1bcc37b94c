package main

import (
	"strings"

	"github.com/bamsammich/sightsync/internal/ffmpeg"
	"github.com/bamsammich/sightsync/internal/filter"
)

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "pattern" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

// codecFlag validates --codec against the supported encoders.
type codecFlag struct {
	codec ffmpeg.Codec
}

func (f *codecFlag) String() string { return string(f.codec) }
func (*codecFlag) Type() string     { return "codec" }

func (f *codecFlag) Set(val string) error {
	c, err := ffmpeg.ParseCodec(val)
	if err != nil {
		return err
	}
	f.codec = c
	return nil
}

// codecNames lists the accepted --codec values for help text.
func codecNames() string {
	codecs := ffmpeg.Codecs()
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
