package element

import "math"

// Waveform 电源波形
type Waveform int

const (
	WfDC       Waveform = iota // 直流：value
	WfAC                       // 正弦：peak·sin(2πft + φ) + bias
	WfSquare                   // 方波：前 duty 周期为 bias+peak，其余为 bias-peak
	WfTriangle                 // 三角波
	WfSawtooth                 // 锯齿波
)

// 周期波形参数下标
const (
	argPeak = iota
	argFrequency
	argBias
	argPhase
	argDuty
)

// Value 计算t时刻的波形值
// 参数:
//
//	p - 直流为[value]；周期波形为[peak, frequency, bias, phase(度), duty]
//	t - 时间（秒）
func (wf Waveform) Value(p []float64, t float64) float64 {
	if wf == WfDC {
		return p[0]
	}
	peak, bias := p[argPeak], p[argBias]
	w := 2*math.Pi*p[argFrequency]*t + p[argPhase]*math.Pi/180
	switch wf {
	case WfAC:
		return peak*math.Sin(w) + bias
	case WfSquare:
		if cycle(w) < 2*math.Pi*p[argDuty] {
			return bias + peak
		}
		return bias - peak
	case WfTriangle:
		return bias + triangle(cycle(w))*peak
	case WfSawtooth:
		return bias + cycle(w)*(peak/math.Pi) - peak
	}
	return 0
}

// cycle 归一化到[0, 2π)
func cycle(w float64) float64 {
	w = math.Mod(w, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w
}

func triangle(x float64) float64 {
	if x < math.Pi {
		return x*(2/math.Pi) - 1
	}
	return 1 - (x-math.Pi)*(2/math.Pi)
}
