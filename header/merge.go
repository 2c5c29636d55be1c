package header

// MergeLegacySigs applies the legacy signature-tag merge: every entry of
// src whose tag matches the legacy remap table is
// renamed to its modern counterpart; other entries inside the reserved
// signature-tag range [SigBase, TagBase) are kept as-is; everything else
// is discarded. Surviving entries are added to dst only if dst does not
// already carry the tag and the entry's (type, count) passes the sanity
// rules below.
//
// MergeLegacySigs mutates dst in place through Put (which only ever adds,
// never overwrites) and only reads src, so calling it twice with the same
// src is idempotent: the second call finds
// every candidate tag already present in dst and adds nothing.
func MergeLegacySigs(dst, src *Header) {
	for _, e := range src.Entries() {
		tag, ok := remapSigTag(e.Tag)
		if !ok {
			continue
		}

		if dst.IsEntry(tag) {
			continue
		}

		if !sigMergeSane(e.Val) {
			continue
		}

		dst.Put(tag, e.Val)
	}
}

// remapSigTag reports the modern tag a legacy signature-header tag maps
// to, and whether the tag survives the merge at all.
func remapSigTag(tag uint32) (uint32, bool) {
	if modern, ok := legacyTagRemap[tag]; ok {
		return modern, true
	}

	if tag >= SigBase && tag < TagBase {
		return tag, true
	}

	return 0, false
}

// sigMergeSane applies the type/count bounds a signature-header entry
// must satisfy to be merged: scalar types require Count==1; STRING and
// BIN require Count<16*1024; STRING_ARRAY and I18N_STRING never merge.
func sigMergeSane(v Value) bool {
	switch v.Type {
	case TypeNull:
		return false
	case TypeChar, TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return v.Count == 1
	case TypeString, TypeBin:
		return v.Count < 16*1024
	case TypeStringArray, TypeI18NString:
		return false
	default:
		return false
	}
}
