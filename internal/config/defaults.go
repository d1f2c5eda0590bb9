package config

const (
	defaultProjectRoot    = "."
	defaultLogDir         = "~/.local/share/assetpipe/logs"
	defaultStateDir       = "~/.local/share/assetpipe/state"
	defaultBackupSuffix   = ".bk"
	defaultJPEGQuality    = 95
	defaultWebPQuality    = 95
	defaultPNGCompression = "best"
	defaultAssetsDir      = "public/assets"
	defaultResizeEngine   = "ffmpeg"
	defaultFFmpegBinary   = "ffmpeg"
	defaultResizeTimeout  = 120
	defaultOutputExt      = ".webp"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultImageExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".webp"}
}

func defaultExcludeDirs() []string {
	return []string{"node_modules", ".git", ".venv", "__pycache__", "dist", ".reference-repo"}
}

func defaultKeywords() []string {
	return []string{"google ai", "google", "trainedalgorithmic", "algorithmic", "compositewithtrained"}
}

func defaultResizeAssets() []ResizeAsset {
	standard := []string{
		"low-fog-maquina.webp",
		"maquina-neve.webp",
		"maquina-bolhas.webp",
		"sky-paper.webp",
		"canhao-seguidor.webp",
		"videoke-equipamento.webp",
		"evento.webp",
		"skywalker-equipamento.webp",
	}
	assets := make([]ResizeAsset, 0, len(standard)+2)
	for _, name := range standard {
		assets = append(assets, ResizeAsset{
			Source:    name,
			OutputExt: defaultOutputExt,
			Quality:   60,
			Variants: []Variant{
				{Suffix: "-small", Width: 400},
				{Suffix: "-large", Width: 600},
				{Suffix: "-medium", Width: 800},
			},
		})
	}
	assets = append(assets,
		ResizeAsset{
			Source:    "hero-bg.webp",
			OutputExt: defaultOutputExt,
			Quality:   65,
			Variants: []Variant{
				{Suffix: "-small", Width: 600},
				{Suffix: "-medium", Width: 1024},
			},
		},
		ResizeAsset{
			Source:    "logo-reflex-som.png",
			OutputExt: defaultOutputExt,
			Quality:   60,
			Variants:  []Variant{{Suffix: "", Width: 185}},
		},
	)
	return assets
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectRoot: defaultProjectRoot,
			LogDir:      defaultLogDir,
			StateDir:    defaultStateDir,
		},
		Scan: Scan{
			ImageExtensions: defaultImageExtensions(),
			ExcludeDirs:     defaultExcludeDirs(),
			BackupSuffix:    defaultBackupSuffix,
			Keywords:        defaultKeywords(),
		},
		Strip: Strip{
			JPEGQuality:    defaultJPEGQuality,
			WebPQuality:    defaultWebPQuality,
			PNGCompression: defaultPNGCompression,
		},
		Resize: Resize{
			AssetsDir:      defaultAssetsDir,
			Engine:         defaultResizeEngine,
			FFmpegBinary:   defaultFFmpegBinary,
			TimeoutSeconds: defaultResizeTimeout,
			Assets:         defaultResizeAssets(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func (c *Config) clearLists() {
	c.Scan.ImageExtensions = nil
	c.Scan.ExcludeDirs = nil
	c.Scan.Keywords = nil
	c.Resize.Assets = nil
}
