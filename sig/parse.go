package sig

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/kslabs/pkgreader/errs"
	"github.com/kslabs/pkgreader/header"
)

// InfoParser turns a signature tag's raw payload into a parsed descriptor.
// The label names where the tag came from ("header" or "package") for
// diagnostics. Pluggable so an embedding application can substitute its
// own packet parser; ParseSigInfo is the default.
type InfoParser func(tag Tag, v header.Value, label string) (*Info, error)

// ParseSigInfo parses the payload of a digest or signature tag.
//
// Digest tags carry the digest value directly: SHA1 as a 40-char hex
// string, MD5 as 16 raw bytes. Signature tags carry one OpenPGP signature
// packet (RFC 4880), from which the hash algorithm, public-key algorithm
// and signer key id are extracted; the trailing MPI material is kept
// opaque for the verification primitive.
func ParseSigInfo(tag Tag, v header.Value, label string) (*Info, error) {
	switch tag {
	case header.TagSHA1Header: // == header.SigTagSHA1
		return parseSHA1Digest(v, label)
	case header.SigTagMD5:
		return parseMD5Digest(v, label)
	case header.TagRSAHeader, header.TagDSAHeader: // == SigTagRSA, SigTagDSA
		return parseSignaturePacket(tag, v, label)
	default:
		return nil, fmt.Errorf("%s tag %d: %w: unexpected tag", label, tag, errs.ErrBadSignaturePacket)
	}
}

func parseSHA1Digest(v header.Value, label string) (*Info, error) {
	if v.Type != header.TypeString || v.Count != 1 {
		return nil, fmt.Errorf("%s SHA1: %w: bad type %d count %d", label, errs.ErrBadSignaturePacket, v.Type, v.Count)
	}

	hexDigest := bytes.TrimSuffix(v.Data, []byte{0})
	raw, err := hex.DecodeString(string(hexDigest))
	if err != nil || len(raw) != 20 {
		return nil, fmt.Errorf("%s SHA1: %w: invalid hex digest", label, errs.ErrBadSignaturePacket)
	}

	return &Info{Kind: KindDigest, HashAlgo: HashSHA1, Digest: raw}, nil
}

func parseMD5Digest(v header.Value, label string) (*Info, error) {
	if v.Type != header.TypeBin || len(v.Data) != 16 {
		return nil, fmt.Errorf("%s MD5: %w: bad type %d size %d", label, errs.ErrBadSignaturePacket, v.Type, len(v.Data))
	}

	return &Info{Kind: KindDigest, HashAlgo: HashMD5, Digest: v.Data}, nil
}

// parseSignaturePacket decodes a single OpenPGP signature packet, v3 or
// v4, old or new packet framing.
func parseSignaturePacket(tag Tag, v header.Value, label string) (*Info, error) {
	bad := func(reason string) error {
		return fmt.Errorf("%s tag %d: %w: %s", label, tag, errs.ErrBadSignaturePacket, reason)
	}

	if v.Type != header.TypeBin || int(v.Count) != len(v.Data) {
		return nil, bad(fmt.Sprintf("bad type %d count %d", v.Type, v.Count))
	}

	body, err := packetBody(v.Data)
	if err != nil {
		return nil, bad(err.Error())
	}
	if len(body) < 2 {
		return nil, bad("truncated packet body")
	}

	info := &Info{Kind: KindSignature}

	switch version := body[0]; version {
	case 3:
		// version(1) hashlen(1)=5 sigtype(1) time(4) signer(8) pubalg(1)
		// hashalg(1) left16(2) mpis
		if len(body) < 19 {
			return nil, bad("truncated v3 signature")
		}
		if body[1] != 5 {
			return nil, bad("bad v3 hashed length")
		}
		info.SignerID = body[7:15]
		info.KeyAlgo = KeyAlgo(body[15])
		info.HashAlgo = HashAlgo(body[16])
		info.Signature = body[19:]
	case 4:
		// version(1) sigtype(1) pubalg(1) hashalg(1)
		// hashedlen(2)+data unhashedlen(2)+data left16(2) mpis
		if len(body) < 6 {
			return nil, bad("truncated v4 signature")
		}
		info.KeyAlgo = KeyAlgo(body[2])
		info.HashAlgo = HashAlgo(body[3])

		hashedLen := int(binary.BigEndian.Uint16(body[4:6]))
		off := 6 + hashedLen
		if off+2 > len(body) {
			return nil, bad("truncated v4 hashed subpackets")
		}
		hashed := body[6:off]

		unhashedLen := int(binary.BigEndian.Uint16(body[off : off+2]))
		if off+2+unhashedLen > len(body) {
			return nil, bad("truncated v4 unhashed subpackets")
		}
		unhashed := body[off+2 : off+2+unhashedLen]

		// The issuer key id may live in either subpacket area.
		if id := findIssuer(hashed); id != nil {
			info.SignerID = id
		} else if id := findIssuer(unhashed); id != nil {
			info.SignerID = id
		}

		sigStart := off + 2 + unhashedLen + 2 // skip left16
		if sigStart > len(body) {
			return nil, bad("truncated v4 signature material")
		}
		info.Signature = body[sigStart:]
	default:
		return nil, bad(fmt.Sprintf("unsupported signature version %d", version))
	}

	if len(info.Signature) == 0 {
		return nil, bad("empty signature material")
	}

	switch {
	case tag == header.TagRSAHeader && info.KeyAlgo != KeyAlgoRSA:
		return nil, bad(fmt.Sprintf("RSA tag carries key algorithm %d", info.KeyAlgo))
	case tag == header.TagDSAHeader && info.KeyAlgo != KeyAlgoDSA:
		return nil, bad(fmt.Sprintf("DSA tag carries key algorithm %d", info.KeyAlgo))
	}

	return info, nil
}

// packetBody strips the OpenPGP packet framing (old or new format) from
// the first packet in data and returns its body.
func packetBody(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("short packet header")
	}

	first := data[0]
	if first&0x80 == 0 {
		return nil, fmt.Errorf("bad packet framing byte 0x%02x", first)
	}

	var ptag byte
	var bodyStart, bodyLen int

	if first&0x40 == 0 {
		// Old format: tag in bits 5..2, length-type in bits 1..0.
		ptag = (first >> 2) & 0x0f
		switch first & 0x03 {
		case 0:
			bodyStart, bodyLen = 2, int(data[1])
		case 1:
			if len(data) < 3 {
				return nil, fmt.Errorf("short 2-byte length")
			}
			bodyStart, bodyLen = 3, int(binary.BigEndian.Uint16(data[1:3]))
		case 2:
			if len(data) < 5 {
				return nil, fmt.Errorf("short 4-byte length")
			}
			l := binary.BigEndian.Uint32(data[1:5])
			if l > uint32(len(data)) {
				return nil, fmt.Errorf("packet length %d exceeds payload", l)
			}
			bodyStart, bodyLen = 5, int(l)
		default:
			return nil, fmt.Errorf("indeterminate packet length")
		}
	} else {
		// New format: tag in bits 5..0, one- and two-octet lengths only
		// here -- signature packets this small always fit. Five-octet and
		// partial lengths are rejected.
		ptag = first & 0x3f
		l := int(data[1])
		if l >= 224 {
			return nil, fmt.Errorf("unsupported new-format length octet 0x%02x", data[1])
		}
		if l >= 192 {
			if len(data) < 3 {
				return nil, fmt.Errorf("short new-format length")
			}
			l = (int(data[1])-192)<<8 + int(data[2]) + 192
			bodyStart = 3
		} else {
			bodyStart = 2
		}
		bodyLen = l
	}

	const pgpPktSignature = 2
	if ptag != pgpPktSignature {
		return nil, fmt.Errorf("packet tag %d is not a signature", ptag)
	}

	if bodyStart+bodyLen > len(data) {
		return nil, fmt.Errorf("packet length %d exceeds payload %d", bodyLen, len(data))
	}

	return data[bodyStart : bodyStart+bodyLen], nil
}

// findIssuer scans a v4 subpacket area for the issuer subpacket (type 16)
// and returns its 8-byte key id.
func findIssuer(area []byte) []byte {
	const subIssuer = 16

	for len(area) > 0 {
		// One-octet subpacket lengths cover every issuer subpacket ever
		// emitted; larger length encodings mean we skip conservatively.
		l := int(area[0])
		if l == 0 || l >= 192 || 1+l > len(area) {
			return nil
		}
		if area[1] == subIssuer && l == 9 {
			return area[2 : 2+8]
		}
		area = area[1+l:]
	}

	return nil
}
