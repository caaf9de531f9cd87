package jpeg

/*
#cgo pkg-config: libjpeg
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <jpeglib.h>
#include <setjmp.h>

typedef struct {
    struct jpeg_error_mgr pub;
    jmp_buf               jmpbuf;
    char                  msg[JMSG_LENGTH_MAX];
} decode_err_mgr;

static void decode_error_exit(j_common_ptr cinfo) {
    decode_err_mgr *e = (decode_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

// dec_session lives in C memory for the whole decode; every entry point
// re-arms the jump buffer before calling into libjpeg.
typedef struct {
    struct jpeg_decompress_struct cinfo;
    decode_err_mgr                jerr;
    unsigned char                *buf;
    unsigned long                 size;
    int                           created;
} dec_session;

static dec_session *dec_new(const unsigned char *data, unsigned long size) {
    dec_session *s = (dec_session *)calloc(1, sizeof(dec_session));
    if (s == NULL) return NULL;
    s->buf = (unsigned char *)malloc(size);
    if (s->buf == NULL) {
        free(s);
        return NULL;
    }
    memcpy(s->buf, data, size);
    s->size = size;
    return s;
}

static int dec_read_header(dec_session *s) {
    s->cinfo.err = jpeg_std_error(&s->jerr.pub);
    s->jerr.pub.error_exit = decode_error_exit;

    if (setjmp(s->jerr.jmpbuf)) {
        return 0;
    }

    jpeg_create_decompress(&s->cinfo);
    s->created = 1;
    for (int m = 0; m < 16; m++) {
        jpeg_save_markers(&s->cinfo, JPEG_APP0 + m, 0xFFFF);
    }
    jpeg_save_markers(&s->cinfo, JPEG_COM, 0xFFFF);
    jpeg_mem_src(&s->cinfo, s->buf, s->size);
    jpeg_read_header(&s->cinfo, TRUE);
    return 1;
}

static int dec_start(dec_session *s, int out_space) {
    if (setjmp(s->jerr.jmpbuf)) {
        return 0;
    }
    s->cinfo.out_color_space = (J_COLOR_SPACE)out_space;
    jpeg_start_decompress(&s->cinfo);
    return 1;
}

static int dec_read_row(dec_session *s, unsigned char *row) {
    if (setjmp(s->jerr.jmpbuf)) {
        return 0;
    }
    JSAMPROW rows[1] = { row };
    if (jpeg_read_scanlines(&s->cinfo, rows, 1) != 1) {
        strncpy(s->jerr.msg, "no scanline available", sizeof(s->jerr.msg)-1);
        return 0;
    }
    return 1;
}

static int dec_finish(dec_session *s) {
    if (setjmp(s->jerr.jmpbuf)) {
        return 0;
    }
    jpeg_finish_decompress(&s->cinfo);
    return 1;
}

static void dec_free(dec_session *s) {
    if (s->created) {
        jpeg_destroy_decompress(&s->cinfo);
    }
    free(s->buf);
    free(s);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/davesmith10/jpgicc/internal/ir"
)

// LibjpegVersion returns the JPEG library version.
func LibjpegVersion() int {
	return int(C.JPEG_LIB_VERSION)
}

// Decoder is a libjpeg decompression session over an in-memory file.
// Every APPn and COM segment is saved while the header is read.
type Decoder struct {
	s       *C.dec_session
	hdr     ir.Header
	markers []ir.Marker

	started bool
	rowLen  int
}

// NewDecoder reads the header and the saved markers of data.
func NewDecoder(data []byte) (*Decoder, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: data too short for JPEG", ir.ErrIO)
	}

	s := C.dec_new((*C.uchar)(unsafe.Pointer(&data[0])), C.ulong(len(data)))
	if s == nil {
		return nil, errors.New("libjpeg: out of memory")
	}
	d := &Decoder{s: s}
	if C.dec_read_header(s) == 0 {
		err := d.err("reading header")
		d.Close()
		return nil, err
	}

	ci := &s.cinfo
	d.hdr = ir.Header{
		Width:      int(ci.image_width),
		Height:     int(ci.image_height),
		Components: int(ci.num_components),
		Space:      ir.CodecSpace(ci.jpeg_color_space),
		SawAdobe:   ci.saw_Adobe_marker != 0,
		SawJFIF:    ci.saw_JFIF_marker != 0,
		Density: ir.Resolution{
			Unit: ir.DensityUnit(ci.density_unit),
			X:    uint16(ci.X_density),
			Y:    uint16(ci.Y_density),
		},
	}

	for m := ci.marker_list; m != nil; m = m.next {
		d.markers = append(d.markers, ir.Marker{
			Code: byte(m.marker),
			Data: C.GoBytes(unsafe.Pointer(m.data), C.int(m.data_length)),
		})
	}
	return d, nil
}

func (d *Decoder) err(op string) error {
	return fmt.Errorf("%w: libjpeg %s: %s", ir.ErrIO, op, C.GoString(&d.s.jerr.msg[0]))
}

// Header returns the decoded frame header.
func (d *Decoder) Header() ir.Header { return d.hdr }

// Markers returns the saved segments in file order.
func (d *Decoder) Markers() []ir.Marker { return d.markers }

// Start begins decompression; rows are produced in out.
func (d *Decoder) Start(out ir.CodecSpace) error {
	if d.started {
		return errors.New("decoder already started")
	}
	if C.dec_start(d.s, C.int(out)) == 0 {
		return d.err("start")
	}
	d.started = true
	d.rowLen = int(d.s.cinfo.output_width) * int(d.s.cinfo.output_components)
	return nil
}

// ReadRow decodes the next scanline into row, which must hold exactly one
// row in the output space.
func (d *Decoder) ReadRow(row []byte) error {
	if !d.started {
		return errors.New("decoder not started")
	}
	if len(row) != d.rowLen {
		return fmt.Errorf("%w: row buffer is %d bytes, decoder produces %d", ir.ErrFormat, len(row), d.rowLen)
	}
	if C.dec_read_row(d.s, (*C.uchar)(unsafe.Pointer(&row[0]))) == 0 {
		return d.err("read")
	}
	return nil
}

// Finish completes decompression.
func (d *Decoder) Finish() error {
	if C.dec_finish(d.s) == 0 {
		return d.err("finish")
	}
	return nil
}

// Close releases the session. It is safe to call more than once.
func (d *Decoder) Close() error {
	if d.s != nil {
		C.dec_free(d.s)
		d.s = nil
	}
	return nil
}
