package helpers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AvatarFolder = "avatars"
	VenueFolder  = "venues"
)

const TokenTTL = 24 * time.Hour

// SignToken issues an HS256 token for the user.
func SignToken(userID uuid.UUID, role, email, secret string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		Role:   role,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[@$!%*?&]`).MatchString(password)
	return hasLower && hasUpper && hasNumber && hasSpecial
}

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug builds a URL slug from the venue name and location plus a short
// random suffix to keep slugs unique without a database round trip.
func GenerateSlug(name, location string) string {
	base := strings.ToLower(name + " " + location)
	base = nonSlugChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return base + "-" + suffix
}

// UploadImages pushes local or data-URI images to Cloudinary and returns the
// secure URLs plus the public ids needed for cleanup on rollback.
func UploadImages(ctx context.Context, cld *cloudinary.Cloudinary, images []string, folder string) ([]string, []string, error) {
	var urls, publicIDs []string
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			continue
		}
		result, err := cld.Upload.Upload(ctx, img, uploader.UploadParams{
			Folder: folder,
			Tags:   []string{"venuehub"},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to upload image: %v", err)
		}
		urls = append(urls, result.SecureURL)
		publicIDs = append(publicIDs, result.PublicID)
	}
	return urls, publicIDs, nil
}

// DeleteImages best-effort removes uploaded assets, used when venue creation
// fails after upload.
func DeleteImages(ctx context.Context, cld *cloudinary.Cloudinary, publicIDs []string) {
	for _, id := range publicIDs {
		_, _ = cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	}
}
