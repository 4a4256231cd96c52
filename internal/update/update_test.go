package update

import "testing"

func TestInstallMethodFor(t *testing.T) {
	cases := []struct {
		path string
		want InstallMethod
	}{
		{"/opt/homebrew/Cellar/keypad/1.0.0/bin/kp", InstallHomebrew},
		{"/home/linuxbrew/.linuxbrew/bin/kp", InstallHomebrew},
		{"/home/me/go/bin/kp", InstallGoInstall},
		{"/usr/local/bin/kp", InstallDirect},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			if got := installMethodFor(tc.path); got != tc.want {
				t.Errorf("installMethodFor(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestIsDevVersion(t *testing.T) {
	for _, v := range []string{"", "dev"} {
		if !isDevVersion(v) {
			t.Errorf("isDevVersion(%q) = false, want true", v)
		}
	}
	if isDevVersion("1.2.3") {
		t.Error("isDevVersion(1.2.3) = true, want false")
	}
}
