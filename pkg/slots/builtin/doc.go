// Package builtin 提供对话型 LLM 调用常用的内置槽位、配方与投影。
//
// 槽位按 P0-P3 分层：
//   - instructions（系统指令，P0）
//   - task、task_state、output_format（当前任务，P1）
//   - evidence（来自检索的事实证据，P2）
//   - history（对话历史，P3）
//
// 宿主应用可以直接使用 NewCatalog，也可以挑选部分槽位与自定义槽位
// 一起组装自己的目录。
package builtin
