package mpeg

/*
#cgo pkg-config: libavformat libavcodec libavutil libswscale

#include <stdlib.h>
#include <string.h>
#include <stdio.h>
#include <libavformat/avformat.h>
#include <libavcodec/avcodec.h>
#include <libavutil/imgutils.h>
#include <libswscale/swscale.h>
#include <libavutil/log.h>

typedef struct {
    AVFormatContext *formatCtx;
    AVCodecContext  *codecCtx;
    AVFrame         *frame;
    AVFrame         *frameRGBA;
    struct SwsContext *swsCtx;
    int             videoStream;
    uint8_t         *bufferRGBA;
} Decoder;

static void init_network(void) {
    static int done = 0;
    if (!done) {
        avformat_network_init();
        done = 1;
    }
}

// Opens a decoder for the stream, preferring VIDEO_DECODER when it matches
// the codec and falling back to FFmpeg's default software decoder.
static int open_codec(Decoder *d, AVStream *st) {
    enum AVCodecID id = st->codecpar->codec_id;
    const AVCodec *candidates[2] = {NULL, NULL};

    const char *forced = getenv("VIDEO_DECODER");
    if (forced && forced[0] != '\0') {
        const AVCodec *c = avcodec_find_decoder_by_name(forced);
        if (c && c->id == id) {
            candidates[0] = c;
        } else {
            fprintf(stderr, "VIDEO_DECODER '%s' unusable for codec %d\n", forced, id);
        }
    }
    candidates[1] = avcodec_find_decoder(id);

    for (int i = 0; i < 2; i++) {
        const AVCodec *c = candidates[i];
        if (!c) continue;
        AVCodecContext *ctx = avcodec_alloc_context3(c);
        if (!ctx) continue;
        avcodec_parameters_to_context(ctx, st->codecpar);
        ctx->thread_type = FF_THREAD_FRAME;
        ctx->thread_count = 0;
        if (avcodec_open2(ctx, c, NULL) < 0) {
            avcodec_free_context(&ctx);
            continue;
        }
        d->codecCtx = ctx;
        return 0;
    }
    return -3;
}

int init_decoder(const char *url, Decoder *d) {
    av_log_set_level(AV_LOG_ERROR);
    init_network();
    d->videoStream = -1;

    if (avformat_open_input(&d->formatCtx, url, NULL, NULL) != 0) {
        return -1;
    }
    if (avformat_find_stream_info(d->formatCtx, NULL) < 0) {
        return -2;
    }

    int idx = av_find_best_stream(d->formatCtx, AVMEDIA_TYPE_VIDEO, -1, -1, NULL, 0);
    if (idx < 0) {
        return -3;
    }
    d->videoStream = idx;
    if (open_codec(d, d->formatCtx->streams[idx]) != 0) {
        return -4;
    }

    int width  = d->codecCtx->width;
    int height = d->codecCtx->height;
    d->frame = av_frame_alloc();
    d->frameRGBA = av_frame_alloc();
    int numBytes = av_image_get_buffer_size(AV_PIX_FMT_RGBA, width, height, 1);
    d->bufferRGBA = (uint8_t *)av_malloc(numBytes);
    av_image_fill_arrays(d->frameRGBA->data, d->frameRGBA->linesize, d->bufferRGBA, AV_PIX_FMT_RGBA, width, height, 1);

    d->swsCtx = sws_getContext(width, height, d->codecCtx->pix_fmt,
                               width, height, AV_PIX_FMT_RGBA,
                               SWS_BILINEAR, NULL, NULL, NULL);
    return 0;
}

// Returns 1 on a decoded frame, 0 on EOF, negative on error.
int decode_frame(Decoder *d, uint8_t **rgba_data) {
    AVPacket packet;
    int ret;

    while (av_read_frame(d->formatCtx, &packet) >= 0) {
        if (packet.stream_index != d->videoStream) {
            av_packet_unref(&packet);
            continue;
        }
        ret = avcodec_send_packet(d->codecCtx, &packet);
        av_packet_unref(&packet);
        if (ret < 0) {
            return -1;
        }
        ret = avcodec_receive_frame(d->codecCtx, d->frame);
        if (ret == AVERROR(EAGAIN) || ret == AVERROR_EOF) {
            continue;
        } else if (ret < 0) {
            return -2;
        }

        sws_scale(d->swsCtx,
                  (const uint8_t * const*)d->frame->data, d->frame->linesize,
                  0, d->codecCtx->height,
                  d->frameRGBA->data, d->frameRGBA->linesize);
        *rgba_data = d->frameRGBA->data[0];
        return 1;
    }
    return 0;
}

// Seeks to the keyframe at or before seconds and drops buffered frames.
int seek_decoder(Decoder *d, double seconds) {
    AVStream *st = d->formatCtx->streams[d->videoStream];
    int64_t ts = (int64_t)(seconds / av_q2d(st->time_base));
    if (st->start_time != AV_NOPTS_VALUE) {
        ts += st->start_time;
    }
    int ret = av_seek_frame(d->formatCtx, d->videoStream, ts, AVSEEK_FLAG_BACKWARD);
    if (ret < 0) {
        return ret;
    }
    avcodec_flush_buffers(d->codecCtx);
    return 0;
}

double decoder_duration(Decoder *d) {
    if (!d->formatCtx || d->formatCtx->duration == AV_NOPTS_VALUE) {
        return 0;
    }
    return (double)d->formatCtx->duration / AV_TIME_BASE;
}

double decoder_fps(Decoder *d) {
    if (d->videoStream < 0) {
        return 0;
    }
    AVRational r = av_guess_frame_rate(d->formatCtx, d->formatCtx->streams[d->videoStream], NULL);
    if (r.den == 0) {
        return 0;
    }
    return av_q2d(r);
}

void close_decoder(Decoder *d) {
    if (!d) return;
    av_free(d->bufferRGBA);
    av_frame_free(&d->frameRGBA);
    av_frame_free(&d->frame);
    avcodec_free_context(&d->codecCtx);
    sws_freeContext(d->swsCtx);
    d->swsCtx = NULL;
    if (d->formatCtx) {
        avformat_close_input(&d->formatCtx);
    }
}
*/
import "C"

import (
	"fmt"
	"io"
	"time"
	"unsafe"
)

type videoDecoder struct {
	cdec     C.Decoder
	width    int
	height   int
	fps      float64
	duration time.Duration
}

func newVideoDecoder(url string) (*videoDecoder, error) {
	cURL := C.CString(url)
	defer C.free(unsafe.Pointer(cURL))

	dec := &videoDecoder{}
	if ret := C.init_decoder(cURL, &dec.cdec); ret != 0 {
		C.close_decoder(&dec.cdec)
		return nil, fmt.Errorf("open %s: init_decoder failed (code=%d)", url, int(ret))
	}

	dec.width = int(dec.cdec.codecCtx.width)
	dec.height = int(dec.cdec.codecCtx.height)
	dec.fps = float64(C.decoder_fps(&dec.cdec))
	if dec.fps <= 0 {
		dec.fps = 30
	}
	dec.duration = time.Duration(float64(C.decoder_duration(&dec.cdec)) * float64(time.Second))
	return dec, nil
}

func (d *videoDecoder) nextFrame() ([]byte, error) {
	var data *C.uint8_t
	ret := C.decode_frame(&d.cdec, &data)
	switch {
	case ret == 0:
		return nil, io.EOF
	case ret < 0:
		return nil, fmt.Errorf("decode error (code=%d)", int(ret))
	}
	return C.GoBytes(unsafe.Pointer(data), C.int(d.width*d.height*4)), nil
}

func (d *videoDecoder) seek(offset time.Duration) error {
	if ret := C.seek_decoder(&d.cdec, C.double(offset.Seconds())); ret < 0 {
		return fmt.Errorf("seek to %s failed (code=%d)", offset, int(ret))
	}
	return nil
}

func (d *videoDecoder) close() {
	C.close_decoder(&d.cdec)
}
