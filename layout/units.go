package layout

// This file defines unit conversions between surface pixels and font points.

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

// DotsPerMM 是绘制表面的栅格化分辨率：1 个表面单位（mm）对应 1 像素。
const DotsPerMM = 1.0

// PxToMm 将像素换算为表面单位（mm）。
func PxToMm(px float64) float64 { return px / DotsPerMM }

// PxToPt 将像素字号换算为字体系统使用的 pt。
func PxToPt(px float64) float64 { return PxToMm(px) * MmToPt }

// PtToPx 将 pt 换算回像素。
func PtToPx(pt float64) float64 { return pt * PtToMm * DotsPerMM }
