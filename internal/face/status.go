package face

import "fmt"

// refreshStatus updates the status row from the peripherals. Analog faces
// have no room for heart rate and steps.
func (c *Controller) refreshStatus(out Sink) {
	p := c.periph

	if p.Battery != nil {
		c.charging.Set(p.Battery.IsCharging())
		c.battery.Set(p.Battery.PercentRemaining())
		if c.charging.IsUpdated() || (!c.charging.Get() && c.battery.IsUpdated()) {
			if c.charging.Get() {
				out.SetText(LabelBattery, SymbolPlug)
			} else {
				out.SetText(LabelBattery, batteryText(c.battery.Get()))
			}
		}
	}

	if p.BLE != nil {
		c.bleConnected.Set(p.BLE.IsConnected())
		if c.bleConnected.IsUpdated() {
			out.SetText(LabelBLE, symbolIf(c.bleConnected.Get(), SymbolBluetooth))
		}
	}

	if p.Notifications != nil {
		c.notification.Set(p.Notifications.NewNotificationsAvailable())
		if c.notification.IsUpdated() {
			out.SetText(LabelNotification, symbolIf(c.notification.Get(), SymbolNotification))
		}
	}

	if c.kind == KindAnalog {
		return
	}

	if p.HeartRate != nil {
		c.heartbeat.Set(p.HeartRate.HeartRate())
		c.heartRunning.Set(p.HeartRate.Running())
		if c.heartbeat.IsUpdated() || c.heartRunning.IsUpdated() {
			text := ""
			if c.heartRunning.Get() {
				text = fmt.Sprintf("%d", c.heartbeat.Get())
			}
			out.SetText(LabelHeartRate, text)
		}
	}

	if p.Motion != nil {
		c.steps.Set(p.Motion.Steps())
		if c.steps.IsUpdated() {
			out.SetText(LabelSteps, fmt.Sprintf("%d", c.steps.Get()))
		}
	}
}

func batteryText(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return fmt.Sprintf("%d%%", percent)
}

func symbolIf(on bool, symbol string) string {
	if on {
		return symbol
	}
	return ""
}
