package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// 本仓库API面的关键路径，生成后逐一校验，缺失即告警
var expectedPaths = []string{
	"/v1/analyze",
	"/admin/providers",
	"/admin/providers/health-check",
	"/admin/cache",
	"/admin/pipeline/stats",
	"/auth/login",
	"/health",
}

type docGenerator struct {
	projectRoot string
	docsDir     string
	mainFile    string
}

func newDocGenerator() (*docGenerator, error) {
	scriptDir, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		return nil, fmt.Errorf("failed to locate script directory: %v", err)
	}

	projectRoot := filepath.Dir(scriptDir)
	return &docGenerator{
		projectRoot: projectRoot,
		docsDir:     filepath.Join(projectRoot, "docs"),
		mainFile:    filepath.Join(projectRoot, "cmd", "server", "main.go"),
	}, nil
}

// ensureSwag swag未安装时自动安装
func (g *docGenerator) ensureSwag() error {
	if err := exec.Command("swag", "--version").Run(); err == nil {
		return nil
	}

	fmt.Println("[信息] swag 工具未安装，正在安装...")
	installCmd := exec.Command("go", "install", "github.com/swaggo/swag/cmd/swag@latest")
	installCmd.Stdout = os.Stdout
	installCmd.Stderr = os.Stderr
	if err := installCmd.Run(); err != nil {
		return fmt.Errorf("failed to install swag: %v", err)
	}
	return nil
}

// generate 在项目根目录运行swag init
func (g *docGenerator) generate() error {
	if _, err := os.Stat(g.mainFile); os.IsNotExist(err) {
		return fmt.Errorf("main file not found: %s", g.mainFile)
	}

	if err := os.Chdir(g.projectRoot); err != nil {
		return fmt.Errorf("failed to chdir to project root: %v", err)
	}

	fmt.Println("[信息] 生成 Swagger 文档...")
	cmd := exec.Command("swag", "init", "-g", "cmd/server/main.go", "-o", "docs", "--parseDependency", "--parseInternal")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("swag init failed: %v", err)
	}
	return nil
}

// verify 检查生成文件齐全且包含本仓库的API端点与认证配置
func (g *docGenerator) verify() error {
	for _, file := range []string{"docs.go", "swagger.json", "swagger.yaml"} {
		path := filepath.Join(g.docsDir, file)
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("generated file missing: %s", file)
		}
		fmt.Printf("[成功] %s (%d bytes)\n", file, info.Size())
	}

	content, err := os.ReadFile(filepath.Join(g.docsDir, "swagger.json"))
	if err != nil {
		return fmt.Errorf("failed to read swagger.json: %v", err)
	}
	doc := string(content)

	missing := 0
	for _, path := range expectedPaths {
		if strings.Contains(doc, fmt.Sprintf("%q", path)) {
			fmt.Printf("[成功] 端点 %s ✓\n", path)
		} else {
			fmt.Printf("[警告] 端点 %s 未找到\n", path)
			missing++
		}
	}

	if strings.Contains(doc, "securityDefinitions") {
		fmt.Println("[成功] 认证配置 ✓")
	} else {
		fmt.Println("[警告] 认证配置未找到")
	}

	if missing > 0 {
		return fmt.Errorf("%d expected endpoints missing from swagger.json", missing)
	}
	return nil
}

func main() {
	verifyOnly := flag.Bool("verify", false, "仅验证现有文档")
	flag.Parse()

	g, err := newDocGenerator()
	if err != nil {
		fmt.Printf("[错误] %v\n", err)
		os.Exit(1)
	}

	if !*verifyOnly {
		if err := g.ensureSwag(); err != nil {
			fmt.Printf("[错误] %v\n", err)
			os.Exit(1)
		}
		if err := g.generate(); err != nil {
			fmt.Printf("[错误] %v\n", err)
			os.Exit(1)
		}
	}

	if err := g.verify(); err != nil {
		fmt.Printf("[错误] %v\n", err)
		os.Exit(1)
	}

	fmt.Println("[成功] Swagger UI: http://localhost:8080/swagger/index.html")
}
