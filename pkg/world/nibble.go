package world

// nibbles packs 4096 4-bit values. Even indices occupy the low nibble of a
// byte, odd indices the high nibble.
type nibbles [2048]byte

func (n *nibbles) get(i int) uint8 {
	b := n[i>>1]
	if i&1 == 0 {
		return b & 0x0F
	}
	return b >> 4
}

func (n *nibbles) set(i int, v uint8) {
	b := &n[i>>1]
	if i&1 == 0 {
		*b = (*b & 0xF0) | (v & 0x0F)
	} else {
		*b = (*b & 0x0F) | ((v & 0x0F) << 4)
	}
}
