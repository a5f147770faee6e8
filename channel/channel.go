// channel.go - per-instrument mixing lane
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package channel implements the engine's per-instrument mixing lane
// (AudioChannel) and sub-bus mixing (ChannelGroup), both grounded in the
// reference synthesis chip's per-channel generateSample/mix path
// (audio_chip.go), generalized from the chip's fixed four hardware
// channels to an arbitrary instrument-owned channel with a processor chain.
package channel

import (
	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/event"
	"github.com/driftwave-audio/engine/processor"
	"github.com/driftwave-audio/engine/vol"
)

// AudioChannel holds the working buffer for one instrument, its event
// lists for the current render window, its processor chain, and an
// optional render cache.
type AudioChannel struct {
	work *buffer.Buffer

	sequenced []event.Event
	live      []event.Event

	Pan          float32
	volumeLog    float32
	Mute         bool
	Chain        *processor.Chain
	lastSample   float32

	// MaxBufferPosition, when > 0, is this channel's own loop bound,
	// distinct from the global loop - enabling measure-local patterns
	// that repeat at a different rate than the global timeline.
	MaxBufferPosition int64

	caching  bool
	cacheable *cache
}

// New constructs a channel sized to the engine's frame count and channel
// count.
func New(channels, frames int) *AudioChannel {
	return &AudioChannel{
		work:      buffer.New(channels, frames),
		volumeLog: vol.ToLog(1),
		Chain:     processor.NewChain(),
	}
}

// VolumeLinear returns the channel's linear (UI-facing) volume.
func (c *AudioChannel) VolumeLinear() float32 { return vol.ToLinear(c.volumeLog) }

// SetVolumeLinear sets the channel's volume from a linear value, storing
// it logarithmically for the mix hot path, and invalidates any cache since
// volume is an audible parameter.
func (c *AudioChannel) SetVolumeLinear(v float32) {
	c.volumeLog = vol.ToLog(v)
	c.ClearCache()
}

// LastSample implements processor.ModSource, so another channel's Filter
// can use this channel's most recent output as a modulation source.
func (c *AudioChannel) LastSample() float32 { return c.lastSample }

// EnableCache configures this channel's cache over [start, end] (frames,
// inclusive) and begins a fresh population pass.
func (c *AudioChannel) EnableCache(start, end int64) {
	if c.cacheable == nil {
		c.cacheable = newCache(c.work.Channels(), c.work.Frames())
	}
	c.cacheable.Configure(start, end)
	c.caching = true
}

// ClearCache discards the channel's cache, if any.
func (c *AudioChannel) ClearCache() {
	if c.cacheable != nil {
		c.cacheable.Clear()
	}
}

// HasCache reports whether a complete cache is ready to be read.
func (c *AudioChannel) HasCache() bool {
	return c.cacheable != nil && c.cacheable.Ready(c.cacheable.generation)
}

// SetSequencedEvents replaces the event list the sequencer collected for
// the current render window.
func (c *AudioChannel) SetSequencedEvents(events []event.Event) { c.sequenced = events }

// SequencedEvents returns the event list most recently collected for this
// channel's render window.
func (c *AudioChannel) SequencedEvents() []event.Event { return c.sequenced }

// AddLive appends a live (unsequenced) event, audible unconditionally.
func (c *AudioChannel) AddLive(e event.Event) { c.live = append(c.live, e) }

// RemoveLive drops a live event by identity.
func (c *AudioChannel) RemoveLive(e event.Event) {
	for i, le := range c.live {
		if le == e {
			c.live = append(c.live[:i], c.live[i+1:]...)
			return
		}
	}
}

// Mix renders this channel's events (or reads its cache), applies its
// processor chain, and merges the result into dst at the given pan and
// volume, per SPEC_FULL.md section 4.7 step 5/6. globalCachingEnabled is
// the engine-wide feature flag; a channel never reads or writes its cache
// when it is false, even if the channel itself is configured for caching.
func (c *AudioChannel) Mix(dst *buffer.Buffer, p event.MixParams, globalCachingEnabled bool, isMonoSource bool) {
	c.Render(p, globalCachingEnabled, isMonoSource)
	c.MergeInto(dst, 1)
}

// Render collects this channel's events (or reads its cache) into its own
// working buffer and applies its processor chain, without merging the
// result anywhere. This is the half of the render core's per-channel work
// (SPEC_FULL.md section 4.7 step 5) that happens whether or not the
// channel belongs to a group - a grouped channel's Render output is read
// directly by Group.ApplyEffectsToChannels instead of being merged here.
func (c *AudioChannel) Render(p event.MixParams, globalCachingEnabled bool, isMonoSource bool) {
	if c.Mute {
		c.work.SilenceAll()
		return
	}

	useCache := globalCachingEnabled && c.cacheable != nil
	hasReadableCache := useCache && c.cacheable.Ready(c.cacheable.generation)

	c.work.SilenceAll()

	if hasReadableCache {
		c.work.Merge(c.cacheable.Buffer(), 0, 0, 1, false)
	} else if len(c.sequenced) > 0 && c.VolumeLinear() > 0 {
		for _, ev := range c.sequenced {
			ev.Mix(c.work, p)
		}
	}

	// live events are unioned in unconditionally, cache or no cache -
	// they have no fixed timeline position to memoize against.
	for _, ev := range c.live {
		ev.Mix(c.work, p)
	}

	if useCache && c.cacheable.isCaching && !hasReadableCache {
		ran := c.Chain.ApplyUpToFirstNonCacheable(c.work, isMonoSource)
		c.cacheable.Write(c.work)
		c.Chain.ApplyFrom(c.work, isMonoSource, ran)
	} else {
		c.Chain.Apply(c.work, isMonoSource)
	}

	n := c.work.Frames()
	if n > 0 {
		c.lastSample = c.work.Channel(0)[n-1]
	}
}

// CaptureInto de-interleaves src (frames*Channels() samples) into this
// channel's own working buffer and applies its processor chain in place,
// for the render core's input-capture path (SPEC_FULL.md section 4.7
// step 4), which has no events to mix - only raw driver input. Returns
// the channel's working buffer for the caller to merge into the master.
func (c *AudioChannel) CaptureInto(src []buffer.Sample, frames int, isMonoSource bool) *buffer.Buffer {
	c.work.SilenceAll()
	channels := c.work.Channels()
	for ch := 0; ch < channels; ch++ {
		dst := c.work.Channel(ch)
		for i := 0; i < frames && i < len(dst); i++ {
			idx := i*channels + ch
			if idx < len(src) {
				dst[i] = src[idx]
			}
		}
	}
	c.Chain.Apply(c.work, isMonoSource)
	return c.work
}

// MergeInto sums this channel's already-rendered working buffer into dst
// at its pan-and-volume gain, additionally scaled by headroom (the
// render core's 1/channelCount headroom factor for direct-to-master
// channels; groups pass 1 since the group chain already governs bus
// level). A no-op if the channel is muted (Render already silenced work
// in that case, so this would contribute nothing regardless).
func (c *AudioChannel) MergeInto(dst *buffer.Buffer, headroom float32) {
	if c.Mute {
		return
	}
	left, right := vol.PanGains(c.Pan)
	volume := c.volumeLog * headroom
	if c.volumeLog == 0 && len(c.live) > 0 {
		// only live events were mixed (Render skips sequenced ones at
		// zero volume); they default to unity channel volume.
		volume = headroom
	}

	if dst.Channels() == 1 {
		dst.Merge(c.work, 0, 0, volume, false)
	} else {
		c.mixPanned(dst, left, right, volume)
	}
}

// mixPanned sums the channel's (processed) working buffer into dst using
// the linear pan law: each source channel feeds its own output bus
// scaled by its same-channel gain (left/right from vol.PanGains) AND
// bleeds into the *opposite* output bus scaled by the complementary gain
// (1-left for left->right, 1-right for right->left). The cross-feed
// term is what reproduces the pan-law test anchor: a source that is
// silent on one channel still must produce a nonzero sample on that
// channel's output once panned, which a same-channel-only gain can never
// do (see vol.PanGains' doc comment).
func (c *AudioChannel) mixPanned(dst *buffer.Buffer, left, right, volume float32) {
	srcL := c.work.Channel(0)
	srcR := srcL
	if c.work.Channels() > 1 {
		srcR = c.work.Channel(1)
	}

	crossToRight := 1 - left
	crossToLeft := 1 - right

	dstL := dst.Channel(0)
	n := len(dstL)
	if len(srcL) < n {
		n = len(srcL)
	}
	if len(srcR) < n {
		n = len(srcR)
	}
	for i := 0; i < n; i++ {
		dstL[i] += (srcL[i]*left + srcR[i]*crossToLeft) * volume
	}

	if dst.Channels() > 1 {
		dstR := dst.Channel(1)
		n = len(dstR)
		if len(srcL) < n {
			n = len(srcL)
		}
		if len(srcR) < n {
			n = len(srcR)
		}
		for i := 0; i < n; i++ {
			dstR[i] += (srcR[i]*right + srcL[i]*crossToRight) * volume
		}
	}
}
