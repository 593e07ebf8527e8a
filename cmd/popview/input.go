package main

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"blockpop/internal/config"
	"blockpop/internal/render"
)

const (
	flySpeed         = 40.0
	mouseSensitivity = 0.12
)

// bindInput captures the cursor and installs the key/mouse callbacks.
func (a *app) bindInput() {
	a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	firstMouse := true
	var lastX, lastY float64
	a.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if firstMouse {
			lastX, lastY = x, y
			firstMouse = false
		}
		a.yaw += (x - lastX) * mouseSensitivity
		a.pitch -= (y - lastY) * mouseSensitivity
		lastX, lastY = x, y

		if a.pitch > 89 {
			a.pitch = 89
		}
		if a.pitch < -89 {
			a.pitch = -89
		}
	})

	a.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyTab:
			a.current = (a.current + 1) % len(a.meshes)
		case glfw.KeyF:
			config.ToggleWireframeMode()
		case glfw.KeyE:
			config.CycleEasing(render.NumEasings)
		case glfw.KeyV:
			if config.ToggleVsync() {
				glfw.SwapInterval(1)
			} else {
				glfw.SwapInterval(0)
			}
		case glfw.KeyMinus:
			config.SetLODPeriod(config.GetLODPeriod() - 16)
		case glfw.KeyEqual:
			config.SetLODPeriod(config.GetLODPeriod() + 16)
		}
	})
}

// front returns the camera's forward vector from yaw and pitch.
func (a *app) front() mgl32.Vec3 {
	yaw := mgl32.DegToRad(float32(a.yaw))
	pitch := mgl32.DegToRad(float32(a.pitch))
	return mgl32.Vec3{
		float32(math.Cos(float64(pitch)) * math.Cos(float64(yaw))),
		float32(math.Sin(float64(pitch))),
		float32(math.Cos(float64(pitch)) * math.Sin(float64(yaw))),
	}.Normalize()
}

// processInput applies held-key movement each frame.
func (a *app) processInput(dt float64) {
	speed := float32(flySpeed * dt)
	if a.window.GetKey(glfw.KeyLeftControl) == glfw.Press {
		speed *= 4
	}

	front := a.front()
	right := front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	if a.window.GetKey(glfw.KeyW) == glfw.Press {
		a.camPos = a.camPos.Add(front.Mul(speed))
	}
	if a.window.GetKey(glfw.KeyS) == glfw.Press {
		a.camPos = a.camPos.Sub(front.Mul(speed))
	}
	if a.window.GetKey(glfw.KeyA) == glfw.Press {
		a.camPos = a.camPos.Sub(right.Mul(speed))
	}
	if a.window.GetKey(glfw.KeyD) == glfw.Press {
		a.camPos = a.camPos.Add(right.Mul(speed))
	}
	if a.window.GetKey(glfw.KeySpace) == glfw.Press {
		a.camPos = a.camPos.Add(mgl32.Vec3{0, speed, 0})
	}
	if a.window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		a.camPos = a.camPos.Sub(mgl32.Vec3{0, speed, 0})
	}
}
