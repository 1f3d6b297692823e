package machine

import "runtime"

// freeRAM reports memory not currently reserved by the Go heap, the
// re-platformed realization of the original's AVR stack/heap gap
// probe: sys.fr has no literal equivalent on a hosted runtime, so it
// reports what the runtime itself considers free instead.
func freeRAM() uint32 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.Sys <= ms.HeapInuse {
		return 0
	}
	return uint32(ms.Sys - ms.HeapInuse)
}
