// group.go - sub-bus mixing a set of channels through a shared chain
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package channel

import (
	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/processor"
	"github.com/driftwave-audio/engine/vol"
)

// Group owns a processor chain and an internal mix buffer sized like a
// channel buffer, holding borrowed references to its member channels.
type Group struct {
	Chain   *processor.Chain
	members []*AudioChannel
	mix     *buffer.Buffer
}

// NewGroup constructs a group sized to the engine's frame count and
// channel count.
func NewGroup(channels, frames int) *Group {
	return &Group{
		Chain: processor.NewChain(),
		mix:   buffer.New(channels, frames),
	}
}

// AddMember adds ch to the group. A channel that belongs to a group is not
// mixed directly into the master by the render core (see channel.Mix's
// caller); the group mixes it instead.
func (g *Group) AddMember(ch *AudioChannel) {
	g.members = append(g.members, ch)
}

// RemoveMember drops ch from the group, if present.
func (g *Group) RemoveMember(ch *AudioChannel) {
	for i, m := range g.members {
		if m == ch {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return
		}
	}
}

// ApplyEffectsToChannels sums every member's working buffer into the
// group's internal buffer, runs the group's processor chain, and merges
// the result into master. Each member channel must already have had its
// own Render called (into its own working buffer) this callback.
func (g *Group) ApplyEffectsToChannels(master *buffer.Buffer, isMonoSource bool) {
	g.mix.SilenceAll()
	for _, m := range g.members {
		if g.mix.Channels() == 1 || m.work.Channels() == 1 {
			g.mix.Merge(m.work, 0, 0, m.volumeLog, false)
			continue
		}
		left, right := vol.PanGains(m.Pan)
		crossToRight, crossToLeft := 1-left, 1-right
		dstL, dstR := g.mix.Channel(0), g.mix.Channel(1)
		srcL, srcR := m.work.Channel(0), m.work.Channel(1)
		for i := 0; i < len(dstL) && i < len(srcL) && i < len(srcR); i++ {
			dstL[i] += (srcL[i]*left + srcR[i]*crossToLeft) * m.volumeLog
		}
		for i := 0; i < len(dstR) && i < len(srcR) && i < len(srcL); i++ {
			dstR[i] += (srcR[i]*right + srcL[i]*crossToRight) * m.volumeLog
		}
	}
	g.Chain.Apply(g.mix, isMonoSource)
	master.Merge(g.mix, 0, 0, 1, false)
}
