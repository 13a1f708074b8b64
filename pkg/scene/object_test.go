package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewObject(t *testing.T) {
	obj := NewObject("sink.single.600")
	if obj.ID != "" {
		t.Errorf("fresh object has id %q", obj.ID)
	}
	if obj.CatalogRef != "sink.single.600" {
		t.Errorf("CatalogRef = %q", obj.CatalogRef)
	}
	if obj.Transform.Scale != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("Scale = %v, want identity", obj.Transform.Scale)
	}
}

func TestCloneIndependence(t *testing.T) {
	obj := NewObject("stove.range.600")
	obj.ID = "orig"
	obj.Properties = map[string]string{"burners": "4"}

	cp := obj.Clone()
	if cp.ID != "orig" {
		t.Errorf("Clone changed id to %q", cp.ID)
	}
	cp.Transform.Translation[0] = 9
	cp.Properties["burners"] = "6"

	if obj.Transform.Translation[0] != 0 {
		t.Error("clone shares transform")
	}
	if obj.Properties["burners"] != "4" {
		t.Error("clone shares property map")
	}

	var nilObj *Object
	if nilObj.Clone() != nil {
		t.Error("Clone of nil != nil")
	}
}
