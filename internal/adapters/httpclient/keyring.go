package httpclient

import "sync/atomic"

// KeyRing hands out API keys round-robin. A zero-key ring returns "".
type KeyRing struct {
	keys []string
	next atomic.Uint64
}

func NewKeyRing(keys ...string) *KeyRing {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return &KeyRing{keys: out}
}

func (k *KeyRing) Next() string {
	if len(k.keys) == 0 {
		return ""
	}
	i := k.next.Add(1) - 1
	return k.keys[i%uint64(len(k.keys))]
}

func (k *KeyRing) Len() int { return len(k.keys) }
