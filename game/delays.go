package game

import (
	"context"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Delays are pauses in milliseconds that give observers time to follow a match.
type Delays struct {
	BeforeCommand     uint32 `yaml:"beforeCommand"`
	BeforeHand        uint32 `yaml:"beforeHand"`
	BeforeBidResponse uint32 `yaml:"beforeBidResponse"`
}

func DefaultDelays() Delays {
	return Delays{
		BeforeCommand:     2000,
		BeforeHand:        3000,
		BeforeBidResponse: 1000,
	}
}

func ParseDelayConfig(delaysFile string) (Delays, error) {
	bytes, err := ioutil.ReadFile(delaysFile)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error reading delay config file [%s]", delaysFile))
	}

	var data Delays
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error parsing delays YAML file [%s]", delaysFile))
	}

	return data, nil
}

// pause waits for ms milliseconds or until ctx is done.
func pause(ctx context.Context, ms uint32) error {
	if ms == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
