package decode

import (
	"encoding/binary"
	"errors"
	"io"
)

// Ogg page layout (RFC 3533): a 27-byte header, a segment table of lacing
// values, then the body. A packet ends at the first lacing value below 255;
// a packet whose last lacing value is 255 continues on the next page.

const (
	oggHeaderLen = 27
	oggContinued = 0x01
)

var (
	errOggCapture = errors.New("ogg: missing capture pattern")
	errOggVersion = errors.New("ogg: unsupported stream structure version")
)

type oggHeader struct {
	flags   byte
	granule int64
	serial  uint32
	lacing  []byte
}

func (h *oggHeader) continued() bool { return h.flags&oggContinued != 0 }

func (h *oggHeader) bodyLen() int {
	n := 0
	for _, l := range h.lacing {
		n += int(l)
	}
	return n
}

func readOggHeader(r io.Reader) (*oggHeader, error) {
	var b [oggHeaderLen]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, err
	}
	if string(b[0:4]) != "OggS" {
		return nil, errOggCapture
	}
	if b[4] != 0 {
		return nil, errOggVersion
	}
	h := &oggHeader{
		flags:   b[5],
		granule: int64(binary.LittleEndian.Uint64(b[6:14])), //nolint:gosec // -1 marks "no packet ends here"
		serial:  binary.LittleEndian.Uint32(b[14:18]),
		lacing:  make([]byte, b[26]),
	}
	if _, err := io.ReadFull(r, h.lacing); err != nil {
		return nil, err
	}
	return h, nil
}

// oggPage holds the packets that complete on one page.
type oggPage struct {
	granule int64
	packets [][]byte
}

// oggReader reads packets from a single logical Ogg stream.
type oggReader struct {
	r         io.ReadSeeker
	partial   []byte
	dataStart int64
}

func newOggReader(r io.ReadSeeker) *oggReader {
	return &oggReader{r: r}
}

// readPage reads the next page and joins packets spanning page boundaries.
// A continuation with no pending fragment (after a seek) is dropped.
func (o *oggReader) readPage() (*oggPage, error) {
	h, err := readOggHeader(o.r)
	if err != nil {
		return nil, eofOf(err)
	}
	body := make([]byte, h.bodyLen())
	if _, err := io.ReadFull(o.r, body); err != nil {
		return nil, eofOf(err)
	}

	page := &oggPage{granule: h.granule}
	var pkt []byte
	skipping := false
	if h.continued() {
		pkt = o.partial
		skipping = pkt == nil
	}
	o.partial = nil

	off := 0
	for _, l := range h.lacing {
		seg := body[off : off+int(l)]
		off += int(l)
		if !skipping {
			pkt = append(pkt, seg...)
		}
		if l < 255 {
			if !skipping {
				page.packets = append(page.packets, pkt)
			}
			pkt = nil
			skipping = false
		}
	}
	if n := len(h.lacing); n > 0 && h.lacing[n-1] == 255 && !skipping {
		o.partial = pkt
	}
	return page, nil
}

// markDataStart records the current offset as the first audio page.
func (o *oggReader) markDataStart() error {
	off, err := o.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	o.dataStart = off
	return nil
}

// lastGranule scans page headers from the data start and returns the final
// granule position, then rewinds to the data start.
func (o *oggReader) lastGranule() (int64, error) {
	if err := o.rewind(); err != nil {
		return 0, err
	}
	var last int64
	for {
		h, err := readOggHeader(o.r)
		if err != nil {
			if errors.Is(eofOf(err), io.EOF) {
				break
			}
			return 0, err
		}
		if h.granule >= 0 {
			last = h.granule
		}
		if _, err := o.r.Seek(int64(h.bodyLen()), io.SeekCurrent); err != nil {
			return 0, err
		}
	}
	return last, o.rewind()
}

// seekGranule positions the reader on the first page whose granule reaches
// target and returns the granule at which that page's first packet starts.
func (o *oggReader) seekGranule(target int64) (int64, error) {
	if err := o.rewind(); err != nil {
		return 0, err
	}
	var start int64
	offset := o.dataStart
	for {
		h, err := readOggHeader(o.r)
		if err != nil {
			if errors.Is(eofOf(err), io.EOF) {
				break
			}
			return 0, err
		}
		if h.granule >= 0 && h.granule >= target {
			break
		}
		if h.granule >= 0 {
			start = h.granule
		}
		next, err := o.r.Seek(int64(h.bodyLen()), io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		offset = next
	}
	if _, err := o.r.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	o.partial = nil
	return start, nil
}

func (o *oggReader) rewind() error {
	o.partial = nil
	_, err := o.r.Seek(o.dataStart, io.SeekStart)
	return err
}

// eofOf folds a truncated trailing page into a clean end of stream.
func eofOf(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}
	return err
}
