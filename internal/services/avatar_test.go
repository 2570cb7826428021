package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

func TestComputeInitials(t *testing.T) {
	assert.Equal(t, "JR", computeInitials("Jordan Rivers"))
	assert.Equal(t, "JR", computeInitials("  jordan  middle   rivers "))
	assert.Equal(t, "J", computeInitials("jordan"))
	assert.Equal(t, "?", computeInitials("   "))
}

func TestPickColorIsDeterministic(t *testing.T) {
	svc := NewAvatarService(logger.NewNop(), &fakeBucket{}).(*avatarService)
	a := svc.pickColor("Jordan Rivers")
	b := svc.pickColor("  JORDAN RIVERS ")
	assert.Equal(t, a, b)
}

func TestSetGeneratedAvatarUploadsPNG(t *testing.T) {
	bucket := &recordingBucket{}
	svc := NewAvatarService(logger.NewNop(), bucket)

	employee := &types.Employee{ID: uuid.New(), FullName: "Jordan Rivers"}
	require.NoError(t, svc.SetGeneratedAvatar(context.Background(), employee))

	require.Len(t, bucket.objects, 1)
	assert.True(t, strings.HasPrefix(employee.AvatarKey, "employee_avatar/"+employee.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(employee.AvatarKey, ".png"))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(bucket.objects[employee.AvatarKey]))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, avatarSize, cfg.Width)
	assert.Equal(t, avatarSize, cfg.Height)
}

func TestSetUploadedAvatarCropsAndResizes(t *testing.T) {
	bucket := &recordingBucket{}
	svc := NewAvatarService(logger.NewNop(), bucket)

	// A wide source must come out square.
	src := image.NewRGBA(image.Rect(0, 0, 300, 120))
	for x := 0; x < 300; x++ {
		for y := 0; y < 120; y++ {
			src.Set(x, y, color.RGBA{R: 200, G: 60, B: 60, A: 255})
		}
	}
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, src))

	employee := &types.Employee{ID: uuid.New(), FullName: "Jordan Rivers"}
	require.NoError(t, svc.SetUploadedAvatar(context.Background(), employee, raw.Bytes()))

	cfg, _, err := image.DecodeConfig(bytes.NewReader(bucket.objects[employee.AvatarKey]))
	require.NoError(t, err)
	assert.Equal(t, avatarSize, cfg.Width)
	assert.Equal(t, avatarSize, cfg.Height)
}

func TestSetUploadedAvatarRejectsGarbage(t *testing.T) {
	svc := NewAvatarService(logger.NewNop(), &recordingBucket{})
	employee := &types.Employee{ID: uuid.New(), FullName: "Jordan Rivers"}
	err := svc.SetUploadedAvatar(context.Background(), employee, []byte("not an image"))
	require.Error(t, err)
}

// Replacing an avatar removes the previous object.
func TestStoreAvatarDeletesOldKey(t *testing.T) {
	bucket := &recordingBucket{}
	svc := NewAvatarService(logger.NewNop(), bucket)

	employee := &types.Employee{ID: uuid.New(), FullName: "Jordan Rivers"}
	require.NoError(t, svc.SetGeneratedAvatar(context.Background(), employee))
	firstKey := employee.AvatarKey

	require.NoError(t, svc.SetGeneratedAvatar(context.Background(), employee))
	assert.NotEqual(t, firstKey, employee.AvatarKey)
	assert.Contains(t, bucket.deleted, firstKey)
}

// recordingBucket keeps uploaded object bytes for inspection.
type recordingBucket struct {
	objects map[string][]byte
	deleted []string
}

func (r *recordingBucket) UploadFile(ctx context.Context, key string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	if r.objects == nil {
		r.objects = make(map[string][]byte)
	}
	r.objects[key] = data
	return nil
}

func (r *recordingBucket) DeleteFile(ctx context.Context, key string) error {
	r.deleted = append(r.deleted, key)
	delete(r.objects, key)
	return nil
}

func (r *recordingBucket) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}
