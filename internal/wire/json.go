package wire

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes a FractalDescriptor using the externally-tagged form:
// {"Julia": {...}}, {"Mandelbrot": {}}, {"NewtonRaphsonZ3": {}}, etc.
func (f FractalDescriptor) MarshalJSON() ([]byte, error) {
	var body any
	switch f.Kind {
	case KindJulia:
		if f.Julia == nil {
			return nil, fmt.Errorf("wire: Julia descriptor missing params")
		}
		body = f.Julia
	case KindIteratedSinZ:
		if f.IteratedSinZ == nil {
			return nil, fmt.Errorf("wire: IteratedSinZ descriptor missing params")
		}
		body = f.IteratedSinZ
	case KindMandelbrot, KindNewtonRaphsonZ3, KindNewtonRaphsonZ4,
		KindNovaNewtonRaphsonZ3, KindNovaNewtonRaphsonZ4:
		body = struct{}{}
	default:
		return nil, fmt.Errorf("wire: unknown fractal kind %q", f.Kind)
	}
	return json.Marshal(map[string]any{string(f.Kind): body})
}

// UnmarshalJSON decodes the externally-tagged fractal descriptor form.
func (f *FractalDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("wire: decoding fractal descriptor: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("wire: fractal descriptor must have exactly one tag, got %d", len(raw))
	}
	for tag, body := range raw {
		switch FractalKind(tag) {
		case KindJulia:
			var p JuliaParams
			if err := json.Unmarshal(body, &p); err != nil {
				return fmt.Errorf("wire: decoding Julia params: %w", err)
			}
			f.Kind = KindJulia
			f.Julia = &p
		case KindIteratedSinZ:
			var p IteratedSinZParams
			if err := json.Unmarshal(body, &p); err != nil {
				return fmt.Errorf("wire: decoding IteratedSinZ params: %w", err)
			}
			f.Kind = KindIteratedSinZ
			f.IteratedSinZ = &p
		case KindMandelbrot:
			f.Kind = KindMandelbrot
		case KindNewtonRaphsonZ3:
			f.Kind = KindNewtonRaphsonZ3
		case KindNewtonRaphsonZ4:
			f.Kind = KindNewtonRaphsonZ4
		case KindNovaNewtonRaphsonZ3:
			f.Kind = KindNovaNewtonRaphsonZ3
		case KindNovaNewtonRaphsonZ4:
			f.Kind = KindNovaNewtonRaphsonZ4
		default:
			return fmt.Errorf("wire: unknown fractal tag %q", tag)
		}
	}
	return nil
}

// MarshalJSON encodes a Message using the externally-tagged form:
// {"FragmentRequest": {...}}, {"FragmentTask": {...}}, {"FragmentResult": {...}}.
func (m Message) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case KindFragmentRequest:
		if m.FragmentRequest == nil {
			return nil, fmt.Errorf("wire: FragmentRequest message missing body")
		}
		return json.Marshal(map[string]any{"FragmentRequest": m.FragmentRequest})
	case KindFragmentTask:
		if m.FragmentTask == nil {
			return nil, fmt.Errorf("wire: FragmentTask message missing body")
		}
		return json.Marshal(map[string]any{"FragmentTask": m.FragmentTask})
	case KindFragmentResult:
		if m.FragmentResult == nil {
			return nil, fmt.Errorf("wire: FragmentResult message missing body")
		}
		return json.Marshal(map[string]any{"FragmentResult": m.FragmentResult})
	default:
		return nil, fmt.Errorf("wire: unknown message kind %d", m.Kind)
	}
}

// UnmarshalJSON decodes the externally-tagged message form.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("wire: decoding message: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("wire: message must have exactly one tag, got %d", len(raw))
	}
	for tag, body := range raw {
		switch tag {
		case "FragmentRequest":
			var req FragmentRequest
			if err := json.Unmarshal(body, &req); err != nil {
				return fmt.Errorf("wire: decoding FragmentRequest: %w", err)
			}
			m.Kind = KindFragmentRequest
			m.FragmentRequest = &req
		case "FragmentTask":
			var task FragmentTask
			if err := json.Unmarshal(body, &task); err != nil {
				return fmt.Errorf("wire: decoding FragmentTask: %w", err)
			}
			m.Kind = KindFragmentTask
			m.FragmentTask = &task
		case "FragmentResult":
			var res FragmentResult
			if err := json.Unmarshal(body, &res); err != nil {
				return fmt.Errorf("wire: decoding FragmentResult: %w", err)
			}
			m.Kind = KindFragmentResult
			m.FragmentResult = &res
		default:
			return fmt.Errorf("wire: unknown message tag %q", tag)
		}
	}
	return nil
}
