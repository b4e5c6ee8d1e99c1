package graph

import (
	"morphgrid/internal/core"
	"morphgrid/internal/schedule"
)

func snapshot(cfg Config, st schedule.State, t float32, strategy string) core.ParameterSnapshot {
	function := st.Current.String()
	if st.Transitioning() {
		function = st.Previous.String() + " -> " + st.Current.String()
	}
	return core.ParameterSnapshot{
		Groups: []core.ParameterGroup{
			{
				Name: "Grid",
				Params: []core.Parameter{
					core.IntParam("resolution", "Resolution", cfg.Grid.Resolution),
					core.FloatParam("step", "Step", cfg.Grid.Step()),
					core.StringParam("strategy", "Strategy", strategy),
				},
			},
			{
				Name: "Schedule",
				Params: []core.Parameter{
					core.StringParam("function", "Function", function),
					core.StringParam("phase", "Phase", st.Phase.String()),
					core.FloatParam("progress", "Progress", st.Progress),
					core.StringParam("mode", "Mode", cfg.Schedule.Mode.String()),
					core.FloatParam("time", "Time", t),
				},
			},
		},
	}
}
