package ingest

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// extractImage runs the OCR path: decode to 3-channel color, grayscale,
// Otsu binarization, a 1x1 morphological opening to suppress isolated
// pixel noise, then Tesseract in single-block page segmentation.
func extractImage(content []byte) (string, error) {
	img, err := gocv.IMDecode(content, gocv.IMReadColor)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()
	if img.Empty() {
		return "", fmt.Errorf("decode image: empty result")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(1, 1))
	defer kernel.Close()

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(thresh, &opened, gocv.MorphOpen, kernel)

	encoded, err := gocv.IMEncode(gocv.PNGFileExt, opened)
	if err != nil {
		return "", fmt.Errorf("encode preprocessed image: %w", err)
	}
	defer encoded.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("configure ocr: %w", err)
	}
	if err := client.SetImageFromBytes(encoded.GetBytes()); err != nil {
		return "", fmt.Errorf("load image into ocr: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("run ocr: %w", err)
	}
	return strings.TrimSpace(text), nil
}
