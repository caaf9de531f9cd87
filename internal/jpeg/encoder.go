package jpeg

/*
#cgo pkg-config: libjpeg
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <jpeglib.h>
#include <jerror.h>
#include <setjmp.h>

typedef struct {
    struct jpeg_error_mgr pub;
    jmp_buf               jmpbuf;
    char                  msg[JMSG_LENGTH_MAX];
} encode_err_mgr;

static void encode_error_exit(j_common_ptr cinfo) {
    encode_err_mgr *e = (encode_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

// grow_dest is a destination manager over a buffer the session owns, so
// it can be released whether or not compression finished.
typedef struct {
    struct jpeg_destination_mgr pub;
    unsigned char              *buf;
    size_t                      cap;
} grow_dest;

static void grow_init(j_compress_ptr cinfo) {
    grow_dest *d = (grow_dest *)cinfo->dest;
    d->cap = 65536;
    d->buf = (unsigned char *)malloc(d->cap);
    if (d->buf == NULL) {
        d->cap = 0;
        ERREXIT1(cinfo, JERR_OUT_OF_MEMORY, 10);
    }
    d->pub.next_output_byte = d->buf;
    d->pub.free_in_buffer = d->cap;
}

static boolean grow_empty(j_compress_ptr cinfo) {
    grow_dest *d = (grow_dest *)cinfo->dest;
    size_t ncap = d->cap * 2;
    unsigned char *nb = (unsigned char *)realloc(d->buf, ncap);
    if (nb == NULL) {
        ERREXIT1(cinfo, JERR_OUT_OF_MEMORY, 10);
    }
    d->pub.next_output_byte = nb + d->cap;
    d->pub.free_in_buffer = ncap - d->cap;
    d->buf = nb;
    d->cap = ncap;
    return TRUE;
}

static void grow_term(j_compress_ptr cinfo) {}

typedef struct {
    struct jpeg_compress_struct cinfo;
    encode_err_mgr              jerr;
    grow_dest                   dest;
    int                         created;
} enc_session;

static size_t enc_size(enc_session *s) {
    return s->dest.cap - s->dest.pub.free_in_buffer;
}

typedef struct {
    int width;
    int height;
    int in_space;
    int jpeg_space;
    int components;
    int full_chroma;
    int write_jfif;
    int write_adobe;
    int density_unit;
    int x_density;
    int y_density;
} enc_params;

static enc_session *enc_new(void) {
    return (enc_session *)calloc(1, sizeof(enc_session));
}

static int enc_start(enc_session *s, enc_params p,
                     const unsigned int *lum_qtable, const unsigned int *chroma_qtable) {
    s->cinfo.err = jpeg_std_error(&s->jerr.pub);
    s->jerr.pub.error_exit = encode_error_exit;

    if (setjmp(s->jerr.jmpbuf)) {
        return 0;
    }

    jpeg_create_compress(&s->cinfo);
    s->created = 1;
    s->dest.pub.init_destination = grow_init;
    s->dest.pub.empty_output_buffer = grow_empty;
    s->dest.pub.term_destination = grow_term;
    s->cinfo.dest = &s->dest.pub;

    s->cinfo.image_width = p.width;
    s->cinfo.image_height = p.height;
    s->cinfo.input_components = p.components;
    s->cinfo.in_color_space = (J_COLOR_SPACE)p.in_space;

    jpeg_set_defaults(&s->cinfo);
    jpeg_set_colorspace(&s->cinfo, (J_COLOR_SPACE)p.jpeg_space);
    s->cinfo.write_JFIF_header = p.write_jfif;
    s->cinfo.write_Adobe_marker = p.write_adobe;
    s->cinfo.density_unit = (UINT8)p.density_unit;
    s->cinfo.X_density = (UINT16)p.x_density;
    s->cinfo.Y_density = (UINT16)p.y_density;

    // Tables are pre-scaled in Go.
    jpeg_add_quant_table(&s->cinfo, 0, lum_qtable, 100, TRUE);
    jpeg_add_quant_table(&s->cinfo, 1, chroma_qtable, 100, TRUE);

    if (p.full_chroma) {
        for (int i = 0; i < s->cinfo.num_components; i++) {
            s->cinfo.comp_info[i].h_samp_factor = 1;
            s->cinfo.comp_info[i].v_samp_factor = 1;
        }
    }

    jpeg_start_compress(&s->cinfo, TRUE);
    return 1;
}

static int enc_write_marker(enc_session *s, int code, const unsigned char *data, unsigned int len) {
    if (setjmp(s->jerr.jmpbuf)) {
        return 0;
    }
    jpeg_write_marker(&s->cinfo, code, data, len);
    return 1;
}

static int enc_write_row(enc_session *s, unsigned char *row) {
    if (setjmp(s->jerr.jmpbuf)) {
        return 0;
    }
    JSAMPROW rows[1] = { row };
    if (jpeg_write_scanlines(&s->cinfo, rows, 1) != 1) {
        strncpy(s->jerr.msg, "scanline not accepted", sizeof(s->jerr.msg)-1);
        return 0;
    }
    return 1;
}

static int enc_finish(enc_session *s) {
    if (setjmp(s->jerr.jmpbuf)) {
        return 0;
    }
    jpeg_finish_compress(&s->cinfo);
    return 1;
}

static void enc_free(enc_session *s) {
    if (s->created) {
        jpeg_destroy_compress(&s->cinfo);
    }
    free(s->dest.buf);
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

// maxMarkerLen is the largest payload a single segment can carry.
const maxMarkerLen = 65533

// Encoder is a libjpeg compression session writing to a growable C buffer.
type Encoder struct {
	s       *C.enc_session
	p       ir.EncodeParams
	started bool
	rows    int
	rowLen  int
}

// NewEncoder allocates an idle session.
func NewEncoder() (*Encoder, error) {
	s := C.enc_new()
	if s == nil {
		return nil, errors.New("libjpeg: out of memory")
	}
	return &Encoder{s: s}, nil
}

func (e *Encoder) err(op string) error {
	return fmt.Errorf("%w: libjpeg %s: %s", ir.ErrIO, op, C.GoString(&e.s.jerr.msg[0]))
}

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// Start configures the session from p and writes the file header.
func (e *Encoder) Start(p ir.EncodeParams) error {
	if e.started {
		return errors.New("encoder already started")
	}
	if p.Width <= 0 || p.Height <= 0 || p.Components < 1 || p.Components > 4 {
		return fmt.Errorf("%w: cannot encode %dx%d with %d components", ir.ErrFormat, p.Width, p.Height, p.Components)
	}

	lum, chroma := QuantTables(p.Quality)
	var lumC, chromaC [64]C.uint
	for i := 0; i < 64; i++ {
		lumC[i] = C.uint(lum[i])
		chromaC[i] = C.uint(chroma[i])
	}

	cp := C.enc_params{
		width:        C.int(p.Width),
		height:       C.int(p.Height),
		in_space:     C.int(p.InSpace),
		jpeg_space:   C.int(p.JPEGSpace),
		components:   C.int(p.Components),
		full_chroma:  cbool(p.FullChroma),
		write_jfif:   cbool(p.WriteJFIF),
		write_adobe:  cbool(p.WriteAdobe),
		density_unit: C.int(p.Density.Unit),
		x_density:    C.int(p.Density.X),
		y_density:    C.int(p.Density.Y),
	}
	if C.enc_start(e.s, cp, &lumC[0], &chromaC[0]) == 0 {
		return e.err("start")
	}

	e.p = p
	e.started = true
	e.rowLen = p.Width * p.Components
	return nil
}

// WriteMarker writes one APPn or COM segment. It must be called after
// Start and before the first row.
func (e *Encoder) WriteMarker(m ir.Marker) error {
	if !e.started || e.rows > 0 {
		return fmt.Errorf("marker %v written outside the header", m)
	}
	if m.Len() > maxMarkerLen {
		return fmt.Errorf("%w: marker %v exceeds %d bytes", ir.ErrFormat, m, maxMarkerLen)
	}
	var data *C.uchar
	if len(m.Data) > 0 {
		data = (*C.uchar)(unsafe.Pointer(&m.Data[0]))
	}
	if C.enc_write_marker(e.s, C.int(m.Code), data, C.uint(len(m.Data))) == 0 {
		return e.err("write marker")
	}
	return nil
}

// WriteRow compresses one scanline laid out in the input space.
func (e *Encoder) WriteRow(row []byte) error {
	if !e.started {
		return errors.New("encoder not started")
	}
	if len(row) != e.rowLen {
		return fmt.Errorf("%w: row is %d bytes, encoder expects %d", ir.ErrFormat, len(row), e.rowLen)
	}
	if C.enc_write_row(e.s, (*C.uchar)(unsafe.Pointer(&row[0]))) == 0 {
		return e.err("write row")
	}
	e.rows++
	return nil
}

// Finish completes the stream and returns the encoded file.
func (e *Encoder) Finish() ([]byte, error) {
	if !e.started {
		return nil, errors.New("encoder not started")
	}
	if e.rows != e.p.Height {
		return nil, fmt.Errorf("%w: wrote %d of %d rows", ir.ErrFormat, e.rows, e.p.Height)
	}
	if C.enc_finish(e.s) == 0 {
		return nil, e.err("finish")
	}
	return C.GoBytes(unsafe.Pointer(e.s.dest.buf), C.int(C.enc_size(e.s))), nil
}

// Close releases the session and its output buffer.
func (e *Encoder) Close() error {
	if e.s != nil {
		C.enc_free(e.s)
		e.s = nil
	}
	return nil
}
