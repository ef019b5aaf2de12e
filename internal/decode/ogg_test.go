package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// oggPageBytes encodes one page carrying segs as its segment table and body.
// The CRC is left zero; the reader does not verify it.
func oggPageBytes(flags byte, granule int64, lacing []byte, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("OggS")
	b.WriteByte(0)
	b.WriteByte(flags)
	_ = binary.Write(&b, binary.LittleEndian, granule)
	_ = binary.Write(&b, binary.LittleEndian, uint32(1))
	_ = binary.Write(&b, binary.LittleEndian, uint32(0))
	_ = binary.Write(&b, binary.LittleEndian, uint32(0))
	b.WriteByte(byte(len(lacing)))
	b.Write(lacing)
	b.Write(body)
	return b.Bytes()
}

// lacingFor returns the lacing values of a complete packet of n bytes.
func lacingFor(n int) []byte {
	var l []byte
	for n >= 255 {
		l = append(l, 255)
		n -= 255
	}
	return append(l, byte(n))
}

func onePacketPage(granule int64, pkt []byte) []byte {
	return oggPageBytes(0, granule, lacingFor(len(pkt)), pkt)
}

func TestReadOggHeader(t *testing.T) {
	page := oggPageBytes(oggContinued, 48000, []byte{255, 10}, make([]byte, 265))
	h, err := readOggHeader(bytes.NewReader(page))
	if err != nil {
		t.Fatalf("readOggHeader() error: %v", err)
	}
	if h.granule != 48000 {
		t.Errorf("granule = %d, want 48000", h.granule)
	}
	if !h.continued() {
		t.Error("continued() = false, want true")
	}
	if h.bodyLen() != 265 {
		t.Errorf("bodyLen() = %d, want 265", h.bodyLen())
	}
}

func TestReadOggHeader_BadCapture(t *testing.T) {
	page := onePacketPage(0, []byte{1})
	copy(page, "Bad!")
	if _, err := readOggHeader(bytes.NewReader(page)); !errors.Is(err, errOggCapture) {
		t.Errorf("error = %v, want errOggCapture", err)
	}
}

func TestOggReader_JoinsPacketAcrossPages(t *testing.T) {
	pkt := bytes.Repeat([]byte{7}, 300)
	var data []byte
	// First page: 255 bytes, packet continues.
	data = append(data, oggPageBytes(0, -1, []byte{255}, pkt[:255])...)
	// Second page: remaining 45 bytes plus a short packet.
	data = append(data, oggPageBytes(oggContinued, 100, []byte{45, 3}, append(pkt[255:], 1, 2, 3))...)

	o := newOggReader(bytes.NewReader(data))
	first, err := o.readPage()
	if err != nil {
		t.Fatalf("readPage() error: %v", err)
	}
	if len(first.packets) != 0 {
		t.Fatalf("first page packets = %d, want 0", len(first.packets))
	}
	second, err := o.readPage()
	if err != nil {
		t.Fatalf("readPage() error: %v", err)
	}
	if len(second.packets) != 2 {
		t.Fatalf("second page packets = %d, want 2", len(second.packets))
	}
	if !bytes.Equal(second.packets[0], pkt) {
		t.Error("joined packet does not match original")
	}
	if !bytes.Equal(second.packets[1], []byte{1, 2, 3}) {
		t.Errorf("second packet = %v", second.packets[1])
	}
	if _, err := o.readPage(); !errors.Is(err, io.EOF) {
		t.Errorf("readPage() at end = %v, want io.EOF", err)
	}
}

func TestOggReader_DropsOrphanContinuation(t *testing.T) {
	page := oggPageBytes(oggContinued, 200, []byte{10, 2}, append(make([]byte, 10), 8, 9))
	o := newOggReader(bytes.NewReader(page))
	p, err := o.readPage()
	if err != nil {
		t.Fatalf("readPage() error: %v", err)
	}
	if len(p.packets) != 1 || !bytes.Equal(p.packets[0], []byte{8, 9}) {
		t.Errorf("packets = %v, want [[8 9]]", p.packets)
	}
}

func TestOggReader_TruncatedPageIsEOF(t *testing.T) {
	page := onePacketPage(10, make([]byte, 50))
	o := newOggReader(bytes.NewReader(page[:len(page)-20]))
	if _, err := o.readPage(); !errors.Is(err, io.EOF) {
		t.Errorf("readPage() = %v, want io.EOF", err)
	}
}

// fakeCodec decodes every packet to framesPerPacket mono samples whose value
// is the packet's first byte.
type fakeCodec struct {
	skip   int64
	resets int
}

const framesPerPacket = 100

func (c *fakeCodec) name() Codec            { return "fake" }
func (c *fakeCodec) sampleRate() int        { return 8000 }
func (c *fakeCodec) channels() int          { return 1 }
func (c *fakeCodec) preSkip() int64         { return c.skip }
func (c *fakeCodec) preRoll() int64         { return 0 }
func (c *fakeCodec) headers() int           { return 1 }
func (c *fakeCodec) addHeader([]byte) error { return nil }
func (c *fakeCodec) reset()                 { c.resets++ }

func (c *fakeCodec) decode(packet []byte, pcm []float32) (int, error) {
	for i := range framesPerPacket {
		pcm[i] = float32(packet[0])
	}
	return framesPerPacket, nil
}

// fakeOggStream builds a stream of n one-packet pages, packet i holding byte i.
func fakeOggStream(t *testing.T, n int, skip int64) *oggStream {
	t.Helper()
	var data []byte
	for i := range n {
		data = append(data, onePacketPage(int64(i+1)*framesPerPacket, []byte{byte(i)})...)
	}
	o := newOggReader(bytes.NewReader(data))
	last, err := o.lastGranule()
	if err != nil {
		t.Fatalf("lastGranule() error: %v", err)
	}
	if last != int64(n)*framesPerPacket {
		t.Fatalf("lastGranule() = %d, want %d", last, n*framesPerPacket)
	}
	codec := &fakeCodec{skip: skip}
	return &oggStream{
		ogg:    o,
		codec:  codec,
		closer: io.NopCloser(nil),
		buf:    make([]float32, maxFrameSamples),
		skip:   skip,
		length: last - skip,
	}
}

func TestOggStream_StreamsAllSamples(t *testing.T) {
	s := fakeOggStream(t, 5, 0)
	if s.Len() != 500 {
		t.Fatalf("Len() = %d, want 500", s.Len())
	}
	buf := make([][2]float64, 1000)
	n, ok := s.Stream(buf)
	if !ok || n != 500 {
		t.Fatalf("Stream() = %d, %v; want 500, true", n, ok)
	}
	if buf[0][0] != 0 || buf[250][0] != 2 || buf[499][1] != 4 {
		t.Errorf("unexpected samples: %v %v %v", buf[0], buf[250], buf[499])
	}
	if s.Position() != 500 {
		t.Errorf("Position() = %d, want 500", s.Position())
	}
	if n, ok := s.Stream(buf); ok || n != 0 {
		t.Errorf("Stream() after end = %d, %v; want 0, false", n, ok)
	}
}

func TestOggStream_PreSkipTrimsStart(t *testing.T) {
	s := fakeOggStream(t, 3, 150)
	buf := make([][2]float64, 1000)
	n, _ := s.Stream(buf)
	if n != 150 {
		t.Fatalf("Stream() = %d samples, want 150", n)
	}
	// Sample 0 is the 151st decoded sample: second half of packet 1.
	if buf[0][0] != 1 || buf[50][0] != 2 {
		t.Errorf("unexpected samples: %v %v", buf[0], buf[50])
	}
}

func TestOggStream_Seek(t *testing.T) {
	s := fakeOggStream(t, 5, 0)
	buf := make([][2]float64, 50)
	s.Stream(buf)

	if err := s.Seek(320); err != nil {
		t.Fatalf("Seek() error: %v", err)
	}
	if s.Position() != 320 {
		t.Errorf("Position() = %d, want 320", s.Position())
	}
	n, ok := s.Stream(buf)
	if !ok || n != 50 {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}
	if buf[0][0] != 3 {
		t.Errorf("sample after seek = %v, want 3", buf[0][0])
	}
	if s.Position() != 370 {
		t.Errorf("Position() = %d, want 370", s.Position())
	}
	if s.codec.(*fakeCodec).resets != 1 {
		t.Error("codec was not reset on seek")
	}
}

func TestOggStream_SeekClamps(t *testing.T) {
	s := fakeOggStream(t, 2, 0)
	if err := s.Seek(10000); err != nil {
		t.Fatalf("Seek() error: %v", err)
	}
	if s.Position() != 200 {
		t.Errorf("Position() = %d, want 200", s.Position())
	}
	buf := make([][2]float64, 10)
	if n, ok := s.Stream(buf); ok || n != 0 {
		t.Errorf("Stream() at end = %d, %v", n, ok)
	}

	if err := s.Seek(-5); err != nil {
		t.Fatalf("Seek() error: %v", err)
	}
	n, _ := s.Stream(buf)
	if n != 10 || buf[0][0] != 0 {
		t.Errorf("after rewind got %d samples starting %v", n, buf[0])
	}
}

func TestDetectOggCodec(t *testing.T) {
	opusHead := []byte("OpusHead\x01\x02\x38\x01\x80\xBB\x00\x00\x00\x00\x00")
	c, err := detectOggCodec(opusHead)
	if err != nil {
		t.Fatalf("detectOggCodec(opus) error: %v", err)
	}
	if c.name() != CodecOpus || c.channels() != 2 || c.preSkip() != 312 || c.sampleRate() != 48000 {
		t.Errorf("opus codec = %s ch=%d skip=%d rate=%d", c.name(), c.channels(), c.preSkip(), c.sampleRate())
	}

	ident := []byte("\x01vorbis\x00\x00\x00\x00\x01\x44\xAC\x00\x00")
	c, err = detectOggCodec(ident)
	if err != nil {
		t.Fatalf("detectOggCodec(vorbis) error: %v", err)
	}
	if c.name() != CodecVorbis || c.channels() != 1 || c.sampleRate() != 44100 || c.headers() != 3 {
		t.Errorf("vorbis codec = %s ch=%d rate=%d", c.name(), c.channels(), c.sampleRate())
	}

	if _, err := detectOggCodec([]byte("Speex   ")); !errors.Is(err, errUnknownOggCodec) {
		t.Errorf("unknown codec error = %v", err)
	}
	if _, err := detectOggCodec([]byte("OpusHead\x02")); !errors.Is(err, errBadOpusHead) {
		t.Errorf("bad opus head error = %v", err)
	}
	if _, err := detectOggCodec([]byte("\x01vorbis\x01\x00")); !errors.Is(err, errBadVorbisHeader) {
		t.Errorf("bad vorbis header error = %v", err)
	}
}

func TestOpenOgg_UnknownCodec(t *testing.T) {
	data := onePacketPage(0, []byte("Speex   1.2"))
	rc := nopSeekCloser{bytes.NewReader(data)}
	if _, _, _, err := openOgg(rc); !errors.Is(err, errUnknownOggCodec) {
		t.Errorf("openOgg() error = %v", err)
	}
}

type nopSeekCloser struct{ io.ReadSeeker }

func (nopSeekCloser) Close() error { return nil }
