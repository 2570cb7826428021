package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

// AvatarService gives every employee a square avatar in the bucket: either a
// processed upload (center-cropped, resized, circle-clipped) or a generated
// initials card when nothing was uploaded.
type AvatarService interface {
	SetUploadedAvatar(ctx context.Context, employee *types.Employee, raw []byte) error
	SetGeneratedAvatar(ctx context.Context, employee *types.Employee) error
}

type avatarService struct {
	log           *logger.Logger
	bucketService BucketService
	fontFace      font.Face
	palette       []color.NRGBA
}

const avatarSize = 512

func NewAvatarService(log *logger.Logger, bucketService BucketService) AvatarService {
	serviceLog := log.With("service", "AvatarService")

	var face font.Face
	if fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT")); fontPath != "" {
		loaded, err := loadFontFace(fontPath, 206)
		if err != nil {
			serviceLog.Warn("Could not load avatar font, falling back to built-in face", "font", fontPath, "error", err)
		} else {
			face = loaded
		}
	} else {
		serviceLog.Warn("AVATAR_FONT not set, generated avatars use the built-in face")
	}

	return &avatarService{
		log:           serviceLog,
		bucketService: bucketService,
		fontFace:      face,
		palette: []color.NRGBA{
			{R: 0x2E, G: 0x5A, B: 0xAC, A: 0xFF},
			{R: 0x7A, G: 0x3E, B: 0x9D, A: 0xFF},
			{R: 0x1E, G: 0x7A, B: 0x5A, A: 0xFF},
			{R: 0xB0, G: 0x4A, B: 0x3A, A: 0xFF},
			{R: 0xA8, G: 0x6A, B: 0x1E, A: 0xFF},
			{R: 0x3A, G: 0x6E, B: 0x8E, A: 0xFF},
		},
	}
}

func (as *avatarService) SetUploadedAvatar(ctx context.Context, employee *types.Employee, raw []byte) error {
	processed, err := processUploadedAvatar(raw, avatarSize)
	if err != nil {
		return err
	}
	return as.storeAvatar(ctx, employee, processed.Bytes())
}

func (as *avatarService) SetGeneratedAvatar(ctx context.Context, employee *types.Employee) error {
	buf, err := as.generateInitialsAvatar(employee.FullName)
	if err != nil {
		return err
	}
	return as.storeAvatar(ctx, employee, buf.Bytes())
}

// storeAvatar uploads under a versioned key so CDNs can never serve a stale
// object, then best-effort deletes the previous one.
func (as *avatarService) storeAvatar(ctx context.Context, employee *types.Employee, data []byte) error {
	oldKey := strings.TrimSpace(employee.AvatarKey)
	newKey := fmt.Sprintf("employee_avatar/%s/%d.png", employee.ID.String(), time.Now().UnixNano())

	if err := as.bucketService.UploadFile(ctx, newKey, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload employee avatar: %w", err)
	}
	employee.AvatarKey = newKey
	employee.AvatarURL = as.bucketService.GetPublicURL(newKey)

	if oldKey != "" && oldKey != newKey {
		if err := as.bucketService.DeleteFile(ctx, oldKey); err != nil {
			as.log.Warn("Failed to delete old avatar (ignored)", "old_key", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) generateInitialsAvatar(fullName string) (bytes.Buffer, error) {
	var buf bytes.Buffer

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.DrawCircle(float64(avatarSize)/2, float64(avatarSize)/2, float64(avatarSize)/2)
	dc.Clip()

	// Color is a stable function of the name so re-generation is idempotent.
	dc.SetColor(as.pickColor(fullName))
	dc.DrawRectangle(0, 0, float64(avatarSize), float64(avatarSize))
	dc.Fill()

	if as.fontFace != nil {
		dc.SetFontFace(as.fontFace)
	}
	initials := computeInitials(fullName)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(avatarSize)/2, float64(avatarSize)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-tw/2, cy+th/2)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode avatar PNG: %w", err)
	}
	return buf, nil
}

func (as *avatarService) pickColor(name string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return as.palette[int(h.Sum32())%len(as.palette)]
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode avatar image: %w", err)
	}

	// Center-crop to square
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode avatar png: %w", err)
	}
	return out, nil
}

func computeInitials(fullName string) string {
	fields := strings.Fields(strings.TrimSpace(fullName))
	switch len(fields) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(fields[0][:1])
	default:
		return strings.ToUpper(fields[0][:1]) + strings.ToUpper(fields[len(fields)-1][:1])
	}
}

func loadFontFace(path string, points float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}
