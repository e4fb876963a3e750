package inference_service

import (
	"image"
	"image/color"
	"sort"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/domain/models"
)

// Classify относит долю площади к уровню критичности:
// low если ratio < LowBelow, medium если ratio < MediumBelow, иначе high.
func Classify(ratio float64, thresholds config.SeverityProfile) string {
	switch {
	case ratio < thresholds.LowBelow:
		return models.SeverityLow
	case ratio < thresholds.MediumBelow:
		return models.SeverityMedium
	default:
		return models.SeverityHigh
	}
}

// ExtractDefects считает пиксели каждого класса маски. Фон (0) и классы вне профиля пропускаются.
// Результат упорядочен по id класса.
func ExtractDefects(mask *image.Gray, classes []config.DefectClassDef, thresholds config.SeverityProfile) []models.Defect {
	counts := make(map[int]int)
	for _, v := range mask.Pix {
		if v != 0 {
			counts[int(v)]++
		}
	}

	total := mask.Bounds().Dx() * mask.Bounds().Dy()
	defects := make([]models.Defect, 0, len(counts))
	if total == 0 {
		return defects
	}
	for _, c := range classes {
		n := counts[c.ID]
		if n == 0 {
			continue
		}
		ratio := float64(n) / float64(total)
		defects = append(defects, models.Defect{
			Type:       c.Name,
			ClassID:    c.ID,
			PixelCount: n,
			AreaRatio:  ratio,
			Severity:   Classify(ratio, thresholds),
		})
	}
	sort.Slice(defects, func(i, j int) bool { return defects[i].ClassID < defects[j].ClassID })
	return defects
}

func palette(classes []config.DefectClassDef) map[uint8]color.RGBA {
	p := make(map[uint8]color.RGBA, len(classes))
	for _, c := range classes {
		p[uint8(c.ID)] = color.RGBA{R: uint8(c.Color[0]), G: uint8(c.Color[1]), B: uint8(c.Color[2]), A: 255}
	}
	return p
}

// Overlay смешивает кадр с цветами классов: out = frame*(1-alpha) + color*alpha на пикселях дефектов
func Overlay(frame *image.RGBA, mask *image.Gray, classes []config.DefectClassDef, alpha float64) *image.RGBA {
	colors := palette(classes)
	out := image.NewRGBA(frame.Bounds())
	copy(out.Pix, frame.Pix)

	w, h := frame.Bounds().Dx(), frame.Bounds().Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, ok := colors[mask.Pix[y*mask.Stride+x]]
			if !ok {
				continue
			}
			i := y*out.Stride + x*4
			out.Pix[i] = blend(out.Pix[i], c.R, alpha)
			out.Pix[i+1] = blend(out.Pix[i+1], c.G, alpha)
			out.Pix[i+2] = blend(out.Pix[i+2], c.B, alpha)
		}
	}
	return out
}

// ColorMask раскрашивает маску классов, фон черный
func ColorMask(mask *image.Gray, classes []config.DefectClassDef) *image.RGBA {
	colors := palette(classes)
	out := image.NewRGBA(mask.Bounds())
	for i, v := range mask.Pix {
		c, ok := colors[v]
		if !ok {
			c = color.RGBA{A: 255}
		}
		out.Pix[i*4], out.Pix[i*4+1], out.Pix[i*4+2], out.Pix[i*4+3] = c.R, c.G, c.B, 255
	}
	return out
}

func blend(dst, src uint8, alpha float64) uint8 {
	return uint8(float64(dst)*(1-alpha) + float64(src)*alpha + 0.5)
}
