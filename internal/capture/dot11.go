package capture

import (
	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"actlight.klederson.com/internal/sampler"
)

// Classify returns the kind of an 802.11 frame. Deauthentication and
// disassociation management frames are suspicious. ok is false when the
// packet carries no 802.11 header.
func Classify(p gopacket.Packet) (kind sampler.Kind, ok bool) {
	layer := p.Layer(layers.LayerTypeDot11)
	if layer == nil {
		return sampler.Frame, false
	}
	dot11, _ := layer.(*layers.Dot11)
	if dot11 == nil {
		return sampler.Frame, false
	}
	return KindOf(dot11.Type), true
}

// KindOf maps an 802.11 frame type to a counter kind.
func KindOf(t layers.Dot11Type) sampler.Kind {
	switch t {
	case layers.Dot11TypeMgmtDeauthentication, layers.Dot11TypeMgmtDisassociation:
		return sampler.Suspicious
	default:
		return sampler.Frame
	}
}

// Decode parses raw frame bytes captured with the given link type.
func Decode(data []byte, link layers.LinkType) gopacket.Packet {
	return gopacket.NewPacket(data, link, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
}
