package httpapi

import (
    "fmt"

    "gremlin-admin/internal/condition"
    "gremlin-admin/internal/models"
    "gremlin-admin/internal/profxml"
)

// DeviceState mô tả trạng thái của một thiết bị. Chỉ một trong GUID
// hoặc VJoyID được phép đặt.
type DeviceState struct {
    GUID    string             `json:"guid,omitempty"`
    VJoyID  *uint32            `json:"vjoy_id,omitempty"`
    Axes    map[uint32]float64 `json:"axes,omitempty"`
    Buttons map[uint32]bool    `json:"buttons,omitempty"`
    Hats    map[uint32]string  `json:"hats,omitempty"`
}

type KeyState struct {
    ScanCode uint16 `json:"scan_code"`
    Extended bool   `json:"extended"`
    Pressed  bool   `json:"pressed"`
}

// SnapshotRequest is the JSON body of an evaluation request.
type SnapshotRequest struct {
    Devices      []DeviceState `json:"devices"`
    Keys         []KeyState    `json:"keys"`
    CurrentInput bool          `json:"current_input"`
}

func (s SnapshotRequest) Oracle() (*condition.Snapshot, error) {
    snap := condition.NewSnapshot()
    for i, d := range s.Devices {
        var dev condition.DeviceID
        switch {
        case d.GUID != "" && d.VJoyID != nil:
            return nil, fmt.Errorf("devices[%d]: guid and vjoy_id are exclusive", i)
        case d.GUID != "":
            guid, err := profxml.ParseGUID(d.GUID)
            if err != nil {
                return nil, fmt.Errorf("devices[%d]: %w", i, err)
            }
            dev = condition.PhysicalDevice(guid)
        case d.VJoyID != nil:
            dev = condition.VirtualDevice(*d.VJoyID)
        default:
            return nil, fmt.Errorf("devices[%d]: guid or vjoy_id required", i)
        }

        for id, v := range d.Axes {
            snap.SetAxis(dev, id, v)
        }
        for id, pressed := range d.Buttons {
            snap.SetButton(dev, id, pressed)
        }
        for id, raw := range d.Hats {
            dir, err := models.ParseHatDirection(raw)
            if err != nil {
                return nil, fmt.Errorf("devices[%d].hats[%d]: %w", i, id, err)
            }
            snap.SetHat(dev, id, dir)
        }
    }
    for _, k := range s.Keys {
        snap.SetKey(k.ScanCode, k.Extended, k.Pressed)
    }
    snap.SetCurrentInput(s.CurrentInput)
    return snap, nil
}
