package config

import "dario.cat/mergo"

// mergeEnvOverrides copies the environment-derived values in o onto p,
// replacing what used to be a hand-written chain of "if o.X != '' { p.X
// = o.X }" assignments with a single structural merge.
func mergeEnvOverrides(p *Config, o envOverrides) error {
	dst := Config{
		GitDirPath:       p.GitDirPath,
		WorkTreePath:     p.WorkTreePath,
		ObjectDirPath:    p.ObjectDirPath,
		LocalConfig:      p.LocalConfig,
		Prefix:           p.Prefix,
		SkipSystemConfig: p.SkipSystemConfig,
	}
	src := Config{
		GitDirPath:       o.GitDirPath,
		WorkTreePath:     o.WorkTreePath,
		ObjectDirPath:    o.ObjectDirPath,
		LocalConfig:      o.LocalConfig,
		Prefix:           o.Prefix,
		SkipSystemConfig: o.SkipSystemConfig,
	}
	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return err
	}
	p.GitDirPath = dst.GitDirPath
	p.WorkTreePath = dst.WorkTreePath
	p.ObjectDirPath = dst.ObjectDirPath
	p.LocalConfig = dst.LocalConfig
	p.Prefix = dst.Prefix
	p.SkipSystemConfig = dst.SkipSystemConfig
	return nil
}
